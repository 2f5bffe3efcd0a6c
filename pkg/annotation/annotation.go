package annotation

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cristalhq/base64"
	"github.com/goccy/go-json"
)

const (
	// Tag marks the start of every encoded annotation.
	Tag = "UPTF"

	headerLen = 8

	fieldHelpLink       = "HelpLink"
	fieldInitialTooltip = "InitialTooltip"
	fieldVersion        = "Version"

	backingFieldSuffix = ">k__BackingField"
)

// Record is the decoded content of an encoded annotation.
type Record struct {
	// HelpLink is empty when the annotation has no link, whether the payload
	// held null or an empty string.
	HelpLink       string `json:"helpLink"`
	InitialTooltip string `json:"initialTooltip"`
	Version        int    `json:"version"`
}

// wireRecord is the serialised form written by UiPath Studio.
type wireRecord struct {
	HelpLink       *string `json:"<HelpLink>k__BackingField"`
	InitialTooltip string  `json:"<InitialTooltip>k__BackingField"`
	Version        int     `json:"<Version>k__BackingField"`
}

// Decode parses an encoded annotation into a [Record].
//
// All returned errors are [*Error]s; use [KindOf] or [errors.Is] with
// [ErrInvalidArgument], [ErrFormat], [ErrSyntax] or [ErrUnexpected] to tell
// them apart.
func Decode(encoded string) (Record, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return Record{}, newError(KindInvalidArgument, errors.New("encoded annotation is required"))
	}

	if !strings.HasPrefix(encoded, Tag) {
		return Record{}, newError(KindFormat, fmt.Errorf("encoded annotation must start with '%s'", Tag))
	}

	rest := encoded[len(Tag):]
	if len(rest) < headerLen {
		return Record{}, newError(KindFormat, errors.New("missing payload length header"))
	}

	size, err := strconv.ParseUint(rest[:headerLen], 16, 32)
	if err != nil {
		return Record{}, newError(KindFormat, fmt.Errorf("invalid payload length header %q", rest[:headerLen]))
	}

	payload := rest[headerLen:]
	if uint64(len(payload)) != size {
		return Record{}, newError(KindSyntax,
			fmt.Errorf("payload is %d bytes, header declares %d", len(payload), size))
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Record{}, newError(KindSyntax, fmt.Errorf("decode base64: %w", err))
	}

	var fields map[string]json.RawMessage

	err = json.Unmarshal(raw, &fields)
	if err != nil {
		return Record{}, newError(KindSyntax, fmt.Errorf("decode json: %w", err))
	}

	return recordFromFields(normaliseKeys(fields))
}

// Encode serialises r the way UiPath Studio does.
func Encode(r Record) (string, error) {
	w := wireRecord{
		InitialTooltip: r.InitialTooltip,
		Version:        r.Version,
	}
	if r.HelpLink != "" {
		w.HelpLink = &r.HelpLink
	}

	buf := &bytes.Buffer{}

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(w)
	if err != nil {
		return "", newError(KindUnexpected, fmt.Errorf("encode json: %w", err))
	}

	payload := base64.StdEncoding.EncodeToString(bytes.TrimSpace(buf.Bytes()))

	return fmt.Sprintf("%s%0*X%s", Tag, headerLen, len(payload), payload), nil
}

// normaliseKeys maps `<Name>k__BackingField` keys to `Name`. Plain keys are
// kept as they are.
func normaliseKeys(fields map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		if strings.HasPrefix(k, "<") && strings.HasSuffix(k, backingFieldSuffix) {
			k = strings.TrimSuffix(strings.TrimPrefix(k, "<"), backingFieldSuffix)
		}

		out[k] = v
	}

	return out
}

func recordFromFields(fields map[string]json.RawMessage) (Record, error) {
	var (
		r        Record
		helpLink *string
		tooltip  *string
	)

	if v, ok := fields[fieldHelpLink]; ok {
		err := json.Unmarshal(v, &helpLink)
		if err != nil {
			return Record{}, newError(KindUnexpected, fmt.Errorf("%s: %w", fieldHelpLink, err))
		}
	}

	if v, ok := fields[fieldInitialTooltip]; ok {
		err := json.Unmarshal(v, &tooltip)
		if err != nil {
			return Record{}, newError(KindUnexpected, fmt.Errorf("%s: %w", fieldInitialTooltip, err))
		}
	}

	if v, ok := fields[fieldVersion]; ok {
		err := json.Unmarshal(v, &r.Version)
		if err != nil {
			return Record{}, newError(KindUnexpected, fmt.Errorf("%s: %w", fieldVersion, err))
		}
	}

	if helpLink != nil {
		r.HelpLink = *helpLink
	}

	if tooltip != nil {
		r.InitialTooltip = *tooltip
	}

	return r, nil
}
