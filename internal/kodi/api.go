package kodi

import (
	"context"
	"fmt"
)

type listFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// watchedFilter selects library items played at least once.
var watchedFilter = listFilter{Field: "playcount", Operator: "greaterthan", Value: "0"}

// Ping checks the device answers JSON-RPC at all.
func (c *Client) Ping(ctx context.Context) error {
	var reply string
	if err := c.Call(ctx, "JSONRPC.Ping", nil, &reply); err != nil {
		return err
	}
	if reply != "pong" {
		return fmt.Errorf("unexpected ping reply %q", reply)
	}
	return nil
}

// WatchedEpisodes lists every episode with a playcount above zero.
func (c *Client) WatchedEpisodes(ctx context.Context) ([]Episode, error) {
	params := struct {
		Properties []string   `json:"properties"`
		Filter     listFilter `json:"filter"`
	}{
		Properties: []string{"showtitle", "file"},
		Filter:     watchedFilter,
	}
	var out struct {
		Episodes []Episode  `json:"episodes"`
		Limits   ListLimits `json:"limits"`
	}
	if err := c.Call(ctx, "VideoLibrary.GetEpisodes", params, &out); err != nil {
		return nil, err
	}
	return out.Episodes, nil
}

// WatchedMovies lists every movie with a playcount above zero.
func (c *Client) WatchedMovies(ctx context.Context) ([]Movie, error) {
	params := struct {
		Properties []string   `json:"properties"`
		Filter     listFilter `json:"filter"`
	}{
		Properties: []string{"originaltitle", "file"},
		Filter:     watchedFilter,
	}
	var out struct {
		Movies []Movie    `json:"movies"`
		Limits ListLimits `json:"limits"`
	}
	if err := c.Call(ctx, "VideoLibrary.GetMovies", params, &out); err != nil {
		return nil, err
	}
	return out.Movies, nil
}

// SystemProperties fetches the device name, version and power capabilities.
func (c *Client) SystemProperties(ctx context.Context) (SystemProperties, error) {
	params := struct {
		Properties []string `json:"properties"`
	}{
		Properties: []string{
			"canshutdown", "cansuspend", "canhibernate", "canreboot",
			"volume", "name", "version",
		},
	}
	var out SystemProperties
	if err := c.Call(ctx, "System.GetProperties", params, &out); err != nil {
		return SystemProperties{}, err
	}
	return out, nil
}

// TVShowCount returns the number of TV shows in the video library.
func (c *Client) TVShowCount(ctx context.Context) (int, error) {
	return c.libraryCount(ctx, "VideoLibrary.GetTVShows")
}

// EpisodeCount returns the number of episodes in the video library.
func (c *Client) EpisodeCount(ctx context.Context) (int, error) {
	return c.libraryCount(ctx, "VideoLibrary.GetEpisodes")
}

// MovieCount returns the number of movies in the video library.
func (c *Client) MovieCount(ctx context.Context) (int, error) {
	return c.libraryCount(ctx, "VideoLibrary.GetMovies")
}

func (c *Client) libraryCount(ctx context.Context, method string) (int, error) {
	params := struct {
		Limits struct {
			Start int `json:"start"`
			End   int `json:"end"`
		} `json:"limits"`
	}{}
	params.Limits.End = 1
	var out struct {
		Limits ListLimits `json:"limits"`
	}
	if err := c.Call(ctx, method, params, &out); err != nil {
		return 0, err
	}
	return out.Limits.Total, nil
}

// ActivePlayers lists the players currently running on the device.
func (c *Client) ActivePlayers(ctx context.Context) ([]Player, error) {
	var out []Player
	if err := c.Call(ctx, "Player.GetActivePlayers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlayerItem returns the title of whatever the given player is playing.
func (c *Client) PlayerItem(ctx context.Context, playerID int) (string, error) {
	params := struct {
		PlayerID   int      `json:"playerid"`
		Properties []string `json:"properties"`
	}{
		PlayerID:   playerID,
		Properties: []string{"title"},
	}
	var out struct {
		Item struct {
			Label string `json:"label"`
			Title string `json:"title"`
		} `json:"item"`
	}
	if err := c.Call(ctx, "Player.GetItem", params, &out); err != nil {
		return "", err
	}
	switch {
	case out.Item.Title != "":
		return out.Item.Title, nil
	case out.Item.Label != "":
		return out.Item.Label, nil
	}
	return "Unknown", nil
}

// VideoAddonCount returns the number of enabled video addons.
func (c *Client) VideoAddonCount(ctx context.Context) (int, error) {
	params := struct {
		Type    string `json:"type"`
		Enabled bool   `json:"enabled"`
	}{
		Type:    "xbmc.addon.video",
		Enabled: true,
	}
	var out struct {
		Addons []struct {
			AddonID string `json:"addonid"`
		} `json:"addons"`
		Limits ListLimits `json:"limits"`
	}
	if err := c.Call(ctx, "Addons.GetAddons", params, &out); err != nil {
		return 0, err
	}
	return out.Limits.Total, nil
}
