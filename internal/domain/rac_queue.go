package domain

import (
	"slices"
	"sort"
)

// RACQueue - очередь RAC пассажиров, всегда отсортирована по RACNumber, затем по PNR
type RACQueue struct {
	entries []*Passenger
}

func NewRACQueue() *RACQueue {
	return &RACQueue{}
}

// Add - добавляет только RAC пассажиров (дубликаты по PNR пропускаются) и пересортировывает очередь
func (q *RACQueue) Add(passengers ...*Passenger) int {
	added := 0
	for _, p := range passengers {
		if p == nil || !p.IsRAC() || q.Contains(p.PNR) {
			continue
		}
		p.RACNumber = ExtractRACNumber(p.RACStatus)
		q.entries = append(q.entries, p)
		added++
	}
	q.sort()
	return added
}

// Remove - удаляет запись по PNR; отсутствие - не ошибка
func (q *RACQueue) Remove(pnr string) bool {
	idx := slices.IndexFunc(q.entries, func(p *Passenger) bool { return p.PNR == pnr })
	if idx < 0 {
		return false
	}
	q.entries = slices.Delete(q.entries, idx, idx+1)
	return true
}

// Front - пассажир с наивысшим приоритетом или nil
func (q *RACQueue) Front() *Passenger {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[0]
}

// Pop - извлекает пассажира с наивысшим приоритетом или nil
func (q *RACQueue) Pop() *Passenger {
	if len(q.entries) == 0 {
		return nil
	}
	front := q.entries[0]
	q.entries = slices.Delete(q.entries, 0, 1)
	return front
}

func (q *RACQueue) Contains(pnr string) bool {
	return q.Find(pnr) != nil
}

func (q *RACQueue) Find(pnr string) *Passenger {
	for _, p := range q.entries {
		if p.PNR == pnr {
			return p
		}
	}
	return nil
}

func (q *RACQueue) Len() int {
	return len(q.entries)
}

// Entries - копия среза в порядке приоритета
func (q *RACQueue) Entries() []*Passenger {
	return slices.Clone(q.entries)
}

func (q *RACQueue) IsSorted() bool {
	return sort.SliceIsSorted(q.entries, q.less)
}

func (q *RACQueue) sort() {
	sort.SliceStable(q.entries, q.less)
}

// less - по номеру RAC, при равных номерах по PNR
func (q *RACQueue) less(i, j int) bool {
	a, b := q.entries[i], q.entries[j]
	if a.RACNumber != b.RACNumber {
		return a.RACNumber < b.RACNumber
	}
	return a.PNR < b.PNR
}
