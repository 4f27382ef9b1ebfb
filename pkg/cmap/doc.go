// Package cmap provides a concurrent map for RentDash catalogues.
//
// The map is split into shards, each guarded by its own RWMutex, so
// readers of one entry never wait on writers of another:
//
//	m := cmap.New[int64, domain.Vehicle]()
//	m.Set(v.ID, v)
//	err := m.Modify(v.ID, func(cur domain.Vehicle) (domain.Vehicle, error) { ... })
//
// All operations are safe for concurrent use. Range visits shards one at a
// time, so it does not observe a single point-in-time view.
package cmap
