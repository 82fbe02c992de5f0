package jsontree

// FindVariant returns the first object in the tree that looks like a
// sellable product variant. An object qualifies if it sits at the
// `masterVariant` key of some parent object and carries `availability`
// or `prices`, or if it directly carries all of `availability`,
// `prices` and `sku`.
//
// The traversal is depth first, objects in document member order, then
// arrays in element order, so the first match is stable for a stable
// document.
func FindVariant(v Value) (Value, bool) {
	return findVariant(v, 0)
}

func findVariant(v Value, depth int) (Value, bool) {
	if depth > MaxDepth {
		return Value{}, false
	}

	switch v.Kind() {
	case Object:
		if master, ok := v.Get("masterVariant"); ok && master.Kind() == Object {
			if master.Has("availability") || master.Has("prices") {
				return master, true
			}
		}
		if v.Has("availability") && v.Has("prices") && v.Has("sku") {
			return v, true
		}
		for _, m := range v.Members() {
			if found, ok := findVariant(m.Value, depth+1); ok {
				return found, true
			}
		}
	case Array:
		for _, item := range v.Items() {
			if found, ok := findVariant(item, depth+1); ok {
				return found, true
			}
		}
	}
	return Value{}, false
}

// FindSKU collects every object anywhere in the tree whose `sku`
// member equals the target string, in depth first document order.
// Matched objects are still descended into, since storefront state
// blobs sometimes nest per-channel copies of the same SKU record.
func FindSKU(v Value, sku string) []Value {
	var matches []Value
	findSKU(v, sku, 0, &matches)
	return matches
}

func findSKU(v Value, sku string, depth int, matches *[]Value) {
	if depth > MaxDepth {
		return
	}

	switch v.Kind() {
	case Object:
		if field, ok := v.Get("sku"); ok && field.Kind() == String && field.Str() == sku {
			*matches = append(*matches, v)
		}
		for _, m := range v.Members() {
			findSKU(m.Value, sku, depth+1, matches)
		}
	case Array:
		for _, item := range v.Items() {
			findSKU(item, sku, depth+1, matches)
		}
	}
}
