package starknet

import (
	"regexp"
	"strings"

	"github.com/NethermindEth/juno-cheatnet/core/felt"
	"github.com/NethermindEth/juno-cheatnet/utils"
)

const panicPrefix = "Got an exception while executing a hint: Custom Hint Error: Execution failed. Failure reason: "

var failureReason = regexp.MustCompile(`Execution failed\. Failure reason: (.*)\.$`)

// PanicError is an application level revert carrying the panic payload
type PanicError struct {
	Data []felt.Felt
}

func (e *PanicError) Error() string {
	return FormatPanic(e.Data)
}

// FormatPanic renders panic data using the revert reason convention
// understood by DecodePanic.
func FormatPanic(data []felt.Felt) string {
	return panicPrefix + `"` + strings.Join(utils.Map(data, formatPanicItem), ", ") + `".`
}

func formatPanicItem(v felt.Felt) string {
	if s, ok := felt.ShortString(v); ok && !strings.Contains(s, "'") {
		return v.String() + " ('" + s + "')"
	}
	return v.String()
}

// DecodePanic extracts the panic payload from a revert reason. ok is false
// when the message does not follow the convention or an item cannot be parsed.
func DecodePanic(msg string) ([]felt.Felt, bool) {
	m := failureReason.FindStringSubmatch(strings.TrimSpace(msg))
	if m == nil {
		return nil, false
	}
	reason := m[1]
	switch {
	case len(reason) >= 2 && reason[0] == '"' && reason[len(reason)-1] == '"':
		reason = reason[1 : len(reason)-1]
	case len(reason) >= 2 && reason[0] == '(' && reason[len(reason)-1] == ')':
		reason = reason[1 : len(reason)-1]
	}
	return decodeItems(reason)
}

func decodeItems(s string) ([]felt.Felt, bool) {
	data := []felt.Felt{}
	for s != "" {
		var (
			item felt.Felt
			ok   bool
		)
		if s[0] == '\'' {
			item, s, ok = decodeQuoted(s)
		} else {
			item, s, ok = decodeNumber(s)
		}
		if !ok {
			return nil, false
		}
		data = append(data, item)

		if s == "" {
			break
		}
		if !strings.HasPrefix(s, ", ") {
			return nil, false
		}
		s = s[2:]
		if s == "" {
			return nil, false
		}
	}
	return data, true
}

// closingQuote finds the end of a quoted short string. The quote must be followed
// by suffix and then either the end of input or the next item separator.
func closingQuote(s, suffix string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != '\'' || !strings.HasPrefix(s[i+1:], suffix) {
			continue
		}
		rest := s[i+1+len(suffix):]
		if rest == "" || strings.HasPrefix(rest, ", ") {
			return i
		}
	}
	return -1
}

func decodeQuoted(s string) (felt.Felt, string, bool) {
	body := s[1:]
	end := closingQuote(body, "")
	if end < 0 {
		return felt.Felt{}, "", false
	}
	v, err := felt.FromShortString[felt.Felt](body[:end])
	if err != nil {
		return felt.Felt{}, "", false
	}
	return v, body[end+1:], true
}

func decodeNumber(s string) (felt.Felt, string, bool) {
	end := strings.IndexAny(s, " ,")
	if end < 0 {
		end = len(s)
	}
	v, err := felt.FromString[felt.Felt](s[:end])
	if err != nil {
		return felt.Felt{}, "", false
	}
	rest := s[end:]
	if strings.HasPrefix(rest, " ('") {
		body := rest[3:]
		closing := closingQuote(body, ")")
		if closing < 0 {
			return felt.Felt{}, "", false
		}
		rest = body[closing+2:]
	}
	return v, rest, true
}
