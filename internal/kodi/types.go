package kodi

import (
	"encoding/json"
	"fmt"
)

// Request is a JSON-RPC 2.0 call envelope.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int64       `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 reply envelope. Result stays raw until the
// caller knows which shape to decode it into.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the error object a device puts in the reply envelope.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Version is Kodi's version object from System.GetProperties.
type Version struct {
	Major    int    `json:"major"`
	Minor    int    `json:"minor"`
	Revision string `json:"revision"`
	Tag      string `json:"tag"`
}

// String renders the version the way Kodi's UI does, e.g. "20.2 Nexus".
func (v Version) String() string {
	if v == (Version{}) {
		return "Unknown"
	}
	if v.Tag != "" {
		return fmt.Sprintf("%d.%d %s", v.Major, v.Minor, v.Tag)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// SystemProperties is the answer to System.GetProperties.
type SystemProperties struct {
	Name         string  `json:"name"`
	Version      Version `json:"version"`
	Volume       int     `json:"volume"`
	CanShutdown  bool    `json:"canshutdown"`
	CanSuspend   bool    `json:"cansuspend"`
	CanHibernate bool    `json:"canhibernate"`
	CanReboot    bool    `json:"canreboot"`
}

// Player is one entry from Player.GetActivePlayers.
type Player struct {
	PlayerID int    `json:"playerid"`
	Type     string `json:"type"`
}

// Episode is one watched episode from VideoLibrary.GetEpisodes.
type Episode struct {
	Label     string `json:"label"`
	ShowTitle string `json:"showtitle"`
	File      string `json:"file"`
}

// Movie is one watched movie from VideoLibrary.GetMovies.
type Movie struct {
	Label         string `json:"label"`
	OriginalTitle string `json:"originaltitle"`
	File          string `json:"file"`
}

// ListLimits echoes the paging block Kodi appends to list results.
type ListLimits struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Total int `json:"total"`
}
