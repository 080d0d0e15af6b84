// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sramc

// set is a set that remembers insertion order.
type set[T comparable] struct {
	m     map[T]struct{}
	items []T
}

func (s *set[T]) add(v T) bool {
	if _, ok := s.m[v]; ok {
		return false
	}
	if s.m == nil {
		s.m = make(map[T]struct{})
	}
	s.m[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *set[T]) has(v T) bool {
	_, ok := s.m[v]
	return ok
}

func (s *set[T]) len() int { return len(s.items) }

func (s *set[T]) list() []T {
	return append([]T(nil), s.items...)
}
