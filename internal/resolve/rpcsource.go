package resolve

import (
	"context"

	"github.com/JustinTDCT/KodiSweep/internal/kodi"
)

// RPCSource reads watched items from a running device over JSON-RPC.
type RPCSource struct {
	client *kodi.Client
}

func NewRPCSource(client *kodi.Client) *RPCSource {
	return &RPCSource{client: client}
}

func (s *RPCSource) Watched(ctx context.Context, kind MediaKind) ([]WatchedItem, error) {
	var items []WatchedItem

	if kind == TV || kind == All {
		episodes, err := s.client.WatchedEpisodes(ctx)
		if err != nil {
			return nil, &SourceError{Source: "json-rpc", Err: err}
		}
		for _, ep := range episodes {
			items = append(items, WatchedItem{
				Show:  ep.ShowTitle,
				Title: ep.Label,
				Path:  ep.File,
			})
		}
	}

	if kind == Movies || kind == All {
		movies, err := s.client.WatchedMovies(ctx)
		if err != nil {
			return nil, &SourceError{Source: "json-rpc", Err: err}
		}
		for _, m := range movies {
			title := m.OriginalTitle
			if title == "" {
				title = m.Label
			}
			items = append(items, WatchedItem{
				Show:  title,
				Title: m.Label,
				Path:  m.File,
			})
		}
	}

	return items, nil
}
