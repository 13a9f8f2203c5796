package helpers

import (
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
)

func FoldErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	ss := make([]string, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			ss = append(ss, e.Error())
		}
	}
	if len(ss) == 0 {
		return nil
	}
	return errors.New(strings.Join(ss, "\n"))
}

func IntSecondDefault(x int, def time.Duration) time.Duration {
	if x == 0 {
		return def
	}
	return time.Duration(x) * time.Second
}

func IntMillisecondDefault(x int, def time.Duration) time.Duration {
	if x == 0 {
		return def
	}
	return time.Duration(x) * time.Millisecond
}

// ParseUint32List parses "13,12,11" into line offsets for GPIO requests.
func ParseUint32List(s string) ([]uint32, error) {
	parts := strings.Split(s, ",")
	xs := make([]uint32, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		x, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, errors.Annotatef(err, "ParseUint32List input=%s", s)
		}
		xs = append(xs, uint32(x))
	}
	if len(xs) == 0 {
		return nil, errors.Errorf("ParseUint32List empty input=%s", s)
	}
	return xs, nil
}
