package trainer

import "os"
import "path/filepath"
import "sort"

import "github.com/pkg/errors"

import "github.com/neurlang/smells/net/cnn"
import "github.com/neurlang/smells/results"

// Resume returns the combinations name already holds a row for, to be set
// as Runner.Done.
func Resume(name string) (map[cnn.Config]bool, error) {
	done, err := results.Evaluated(name)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot resume %s", name)
	}
	return done, nil
}

// Latest returns the newest file of dir named <prefix><name>_*.csv, or an
// empty string when there is none.
func Latest(dir, prefix, name string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+name+"_*.csv"))
	if err != nil {
		return "", errors.Wrap(err, "bad result pattern")
	}
	if len(matches) == 0 {
		return "", nil
	}
	mod := make(map[string]int64, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return "", errors.Wrap(err, "cannot stat result file")
		}
		mod[m] = info.ModTime().UnixNano()
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if mod[matches[i]] != mod[matches[j]] {
			return mod[matches[i]] > mod[matches[j]]
		}
		return matches[i] > matches[j]
	})
	return matches[0], nil
}
