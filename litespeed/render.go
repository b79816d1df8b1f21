package litespeed

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const namespace = "litespeed"

// RenderMetrics serializes metrics into the OpenMetrics text format.
func RenderMetrics(metrics []Metric) (string, error) {
	var b strings.Builder
	if err := WriteMetrics(&b, metrics); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteMetrics groups metrics by name, keeping the order in which each name
// was first seen, writes one family per group and terminates the output
// with the # EOF marker. Metrics sharing a name must share a kind; a mixed
// group is a data integrity fault and aborts the render.
func WriteMetrics(w io.Writer, metrics []Metric) error {
	groups := make(map[string][]Metric)
	var order []string
	for _, m := range metrics {
		if _, ok := groups[m.Name]; !ok {
			order = append(order, m.Name)
		}
		groups[m.Name] = append(groups[m.Name], m)
	}
	for _, name := range order {
		if err := writeFamily(w, groups[name]); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "# EOF\n")
	return err
}

func writeFamily(w io.Writer, family []Metric) error {
	first := family[0]
	name := namespace + "_" + first.Name
	var b strings.Builder
	fmt.Fprintf(&b, "# TYPE %s %s\n", name, first.Kind)
	if first.Unit != "" {
		fmt.Fprintf(&b, "# UNIT %s %s\n", name, first.Unit)
	}
	if first.Help != "" {
		fmt.Fprintf(&b, "# HELP %s %s\n", name, first.Help)
	}
	for _, m := range family {
		if m.Kind != first.Kind {
			return fmt.Errorf("metric %s: kind %s conflicts with earlier kind %s", m.Name, m.Kind, first.Kind)
		}
		b.WriteString(name)
		if len(m.Labels) > 0 {
			b.WriteByte('{')
			for i, label := range m.Labels {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(label.Name)
				b.WriteByte('=')
				b.WriteString(strconv.Quote(label.Value))
			}
			b.WriteByte('}')
		}
		b.WriteByte(' ')
		b.WriteString(formatValue(m))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatValue(m Metric) string {
	if m.Float {
		s := strconv.FormatFloat(m.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			// Keep float-typed values visibly floating, e.g. "0.0".
			s += ".0"
		}
		return s
	}
	return strconv.FormatInt(int64(m.Value), 10)
}
