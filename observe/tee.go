package observe

import "github.com/npillmayer/bptree"

// Tee fans an event out to several observers, in order. Nil observers are
// skipped.
func Tee[K any](observers ...bptree.Observer[K]) bptree.Observer[K] {
	var list []bptree.Observer[K]
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return bptree.ObserverFunc[K](func(e bptree.Event[K]) {
		for _, o := range list {
			o.Observe(e)
		}
	})
}
