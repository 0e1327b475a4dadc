package x11

// diffClients returns the entries of curr missing from prev and the
// entries of prev missing from curr, each in their original order.
func diffClients[T comparable](prev, curr []T) (added, removed []T) {
	inPrev := make(map[T]bool, len(prev))
	for _, c := range prev {
		inPrev[c] = true
	}
	inCurr := make(map[T]bool, len(curr))
	for _, c := range curr {
		inCurr[c] = true
		if !inPrev[c] {
			added = append(added, c)
		}
	}
	for _, c := range prev {
		if !inCurr[c] {
			removed = append(removed, c)
		}
	}
	return added, removed
}

// appName picks the application name for a client from its WM_CLASS,
// preferring the class over the instance.
func appName(instance, class string) string {
	switch {
	case class != "":
		return class
	case instance != "":
		return instance
	}
	return "<unknown>"
}
