package event

import (
	"encoding/json"
	"fmt"
)

// Wire field names shared with hook commands. Hooks receive this
// document on stdin and hosts submit it when piping events in.
const (
	fieldEventName = "hook_event_name"
	fieldSessionID = "session_id"
	fieldCwd       = "cwd"
	fieldToolName  = "tool_name"
	fieldToolInput = "tool_input"
	fieldFilePath  = "file_path"
)

// MarshalStdin encodes the event as the JSON document hook commands
// read on stdin. Extra fields from the host are forwarded verbatim;
// the canonical fields win on collision.
func (e *Event) MarshalStdin() ([]byte, error) {
	doc := make(map[string]any, len(e.Extra)+5)
	for k, v := range e.Extra {
		doc[k] = v
	}

	doc[fieldEventName] = string(e.Kind)
	if e.SessionID != "" {
		doc[fieldSessionID] = e.SessionID
	}
	if e.Cwd != "" {
		doc[fieldCwd] = e.Cwd
	}
	if e.ToolName != "" {
		doc[fieldToolName] = e.ToolName
	}
	if e.FilePath != "" {
		toolInput := make(map[string]any, 2)
		if prev, ok := doc[fieldToolInput].(map[string]any); ok {
			for k, v := range prev {
				toolInput[k] = v
			}
		}
		toolInput[fieldFilePath] = e.FilePath
		doc[fieldToolInput] = toolInput
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event payload: %w", err)
	}
	return data, nil
}

// ParseInput decodes a host-supplied event document. The document
// must name a recognized event in hook_event_name; tool_name, cwd,
// session_id and tool_input.file_path are lifted into the Event and
// any remaining fields are retained in Extra.
func ParseInput(data []byte) (*Event, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ErrMalformedInput{Reason: err.Error()}
	}

	name, _ := doc[fieldEventName].(string)
	if name == "" {
		return nil, ErrMalformedInput{Reason: "missing hook_event_name"}
	}
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}

	opts := Options{}
	if v, ok := doc[fieldToolName].(string); ok {
		opts.ToolName = v
	}
	if v, ok := doc[fieldSessionID].(string); ok {
		opts.SessionID = v
	}
	if v, ok := doc[fieldCwd].(string); ok {
		opts.Cwd = v
	}
	if toolInput, ok := doc[fieldToolInput].(map[string]any); ok {
		if v, ok := toolInput[fieldFilePath].(string); ok {
			opts.FilePath = v
		}
	}

	extra := make(map[string]any)
	for k, v := range doc {
		switch k {
		case fieldEventName, fieldSessionID, fieldCwd, fieldToolName:
			continue
		case fieldToolInput:
			// Keep tool_input subfields other than the lifted file_path
			// so they reach hooks unchanged.
			toolInput, ok := v.(map[string]any)
			if !ok {
				continue
			}
			rest := make(map[string]any, len(toolInput))
			for ik, iv := range toolInput {
				if ik == fieldFilePath {
					continue
				}
				rest[ik] = iv
			}
			if len(rest) > 0 {
				extra[fieldToolInput] = rest
			}
			continue
		}
		extra[k] = v
	}
	if len(extra) > 0 {
		opts.Extra = extra
	}

	return New(kind, opts), nil
}
