package manager

// ordered keeps values by key in first insertion order, replacing a value keeps its position
type ordered[T any] struct {
	keys  []string
	items map[string]*T
}

func (o *ordered[T]) put(key string, value *T) {
	if o.items == nil {
		o.items = make(map[string]*T)
	}
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.items[key] = value
}

func (o *ordered[T]) get(key string) *T {
	if o == nil {
		return nil
	}
	return o.items[key]
}

func (o *ordered[T]) values() []*T {
	if o == nil {
		return []*T{}
	}
	ret := make([]*T, 0, len(o.keys))
	for _, key := range o.keys {
		ret = append(ret, o.items[key])
	}
	return ret
}
