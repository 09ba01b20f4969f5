package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/go-radius/raddecode/internal/radius"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// errUnsupportedFormat is returned when the requested output format is not supported.
var errUnsupportedFormat = errors.New("unsupported output format")

// formatPairs renders decoded attribute pairs in the requested format.
func formatPairs(pairs []radius.Pair, format string) (string, error) {
	switch format {
	case formatJSON:
		return formatPairsJSON(pairs)
	case formatTable:
		return formatPairsTable(pairs), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

func formatPairsTable(pairs []radius.Pair) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tTAG\tVALUE")

	for _, p := range pairs {
		name := p.Attr.Name
		if p.Attr.Flags.IsUnknown {
			name = "raw:" + name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, p.Attr.Kind, tagLabel(p.Tag), formatValue(p.Value))
	}

	w.Flush() //nolint:errcheck // writing to a strings.Builder never fails
	return buf.String()
}

func tagLabel(tag uint8) string {
	if tag == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", tag)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []byte:
		return fmt.Sprintf("% x", val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// pairView is the JSON shape emitted for one decoded attribute.
type pairView struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Tag    uint8  `json:"tag,omitempty"`
	Value  any    `json:"value"`
	Raw    bool   `json:"raw,omitempty"`
}

func formatPairsJSON(pairs []radius.Pair) (string, error) {
	views := make([]pairView, 0, len(pairs))
	for _, p := range pairs {
		v := p.Value
		if raw, ok := v.([]byte); ok {
			v = fmt.Sprintf("%x", raw)
		}
		views = append(views, pairView{
			Name:  p.Attr.Name,
			Kind:  p.Attr.Kind.String(),
			Tag:   p.Tag,
			Value: v,
			Raw:   p.Attr.Flags.IsUnknown,
		})
	}

	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal pairs to JSON: %w", err)
	}
	return string(data), nil
}
