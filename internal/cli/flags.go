package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

// optionalInt is a positive integer flag that distinguishes "unset" from
// any value.
type optionalInt struct {
	v *int
}

var _ pflag.Value = (*optionalInt)(nil)

func (o *optionalInt) String() string {
	if o.v == nil {
		return ""
	}
	return strconv.Itoa(*o.v)
}

func (o *optionalInt) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive integer, got %q", s)
	}
	o.v = &n
	return nil
}

func (o *optionalInt) Type() string { return "int" }

// Ptr returns the value, or nil when the flag was never set.
func (o *optionalInt) Ptr() *int { return o.v }
