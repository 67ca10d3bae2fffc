package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// printf prints a message with no decoration.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

// infof prints a message prefixed with a green "Info: ".
func infof(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, color.GreenString("Info: ")+format+"\n", a...)
}

// warningf prints a message prefixed with a yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, color.YellowString("Warning: ")+format+"\n", a...)
}

// parseFloats parses a comma separated list of numbers. want < 0 accepts any count.
func parseFloats(raw string, want int) ([]float64, error) {
	fields := lo.Map(strings.Split(raw, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
	if want >= 0 && len(fields) != want {
		return nil, errors.Errorf("expected %d comma separated numbers, got %d", want, len(fields))
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%q is not a number", f)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseVector parses "x,y,z".
func parseVector(raw string) (r3.Vector, error) {
	v, err := parseFloats(raw, 3)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, nil
}
