package api

import "encoding/json"

// WireCommand is one game action inside a batch
type WireCommand struct {
	Command    string                 `json:"Command"`
	Time       string                 `json:"Time"`
	Parameters map[string]interface{} `json:"Parameters"`
}

// BatchDebug carries queued "ad-watch" simulation metadata. Attached at the
// batch top level only when some command in the batch supplied it.
type BatchDebug struct {
	CollectionsInQueue    int    `json:"CollectionsInQueue"`
	CollectionsInQueueIDs string `json:"CollectionsInQueueIds"`
}

// CommandBatch is the wire envelope for one request of game actions
type CommandBatch struct {
	ID            int           `json:"Id"`
	Time          string        `json:"Time"`
	Commands      []WireCommand `json:"Commands"`
	Transactional bool          `json:"Transactional"`
	Debug         *BatchDebug   `json:"Debug,omitempty"`
}

// serverEnvelope is the outer JSON shape of every game server response
type serverEnvelope struct {
	Success   bool            `json:"Success"`
	RequestID string          `json:"RequestId"`
	Time      string          `json:"Time"`
	Data      json.RawMessage `json:"Data"`
	Error     *serverError    `json:"Error"`
}

type serverError struct {
	Message   string `json:"Message"`
	ErrorCode string `json:"ErrorCode"`
}

// DeltaCommand is one server-pushed state change echoed in a response
type DeltaCommand struct {
	Command string          `json:"Command"`
	Time    string          `json:"Time"`
	Data    json.RawMessage `json:"Data"`
}

// BatchData is the decoded Data portion of a command batch response
type BatchData struct {
	CollectionID int            `json:"CollectionId"`
	Commands     []DeltaCommand `json:"Commands"`
}

// BatchResponse is what command execution consumes: the server clock plus any
// pushed deltas to reconcile
type BatchResponse struct {
	Time     string
	Data     BatchData
	RawData  json.RawMessage
	Commands []DeltaCommand
}

// LoginData is the session material returned by a device login
type LoginData struct {
	PlayerID        int    `json:"PlayerId"`
	GameAccessToken string `json:"AccessToken"`
	RememberToken   string `json:"RememberToken"`
	SessionID       string `json:"SessionId"`
}
