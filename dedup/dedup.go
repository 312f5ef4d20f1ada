// Package dedup is the title check run before spending a generation call.
//
// The window is the N most recent titles loaded once per run, so it is a
// best-effort filter and not a uniqueness guarantee.
package dedup

import "strings"

type Set struct {
	titles map[string]struct{}
}

// Normalize lower-cases and trims a title.
func Normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func NewFromTitles(titles []string) *Set {
	s := &Set{titles: make(map[string]struct{}, len(titles))}
	for _, t := range titles {
		s.Add(t)
	}
	return s
}

// IsDuplicate 는 정규화된 제목이 이미 있으면 true 이다.
func (s *Set) IsDuplicate(title string) bool {
	_, ok := s.titles[Normalize(title)]
	return ok
}

// Add 는 이번 실행에서 만든 제목도 같은 실행 안의 중복 판정에 쓰이도록 추가한다.
func (s *Set) Add(title string) {
	n := Normalize(title)
	if n == "" {
		return
	}
	s.titles[n] = struct{}{}
}

func (s *Set) Len() int { return len(s.titles) }
