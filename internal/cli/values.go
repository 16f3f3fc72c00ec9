package cli

import "strings"

// StringList is a repeatable flag; each occurrence may also carry a
// comma-separated list when Split is set.
type StringList struct {
	Values []string
	Split  bool
}

func (s *StringList) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(s.Values, ",")
}

func (s *StringList) Set(v string) error {
	if !s.Split {
		s.Values = append(s.Values, v)
		return nil
	}
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			s.Values = append(s.Values, part)
		}
	}
	return nil
}
