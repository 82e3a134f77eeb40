package nodeconfig

// Merge applies patch onto target and returns the result. Nested objects
// merge recursively, scalars and arrays are replaced wholesale, and an
// explicit null deletes the key (JSON merge patch semantics). The target map
// is modified in place.
func Merge(target, patch map[string]any) map[string]any {
	return mergeValue(target, patch).(map[string]any)
}

func mergeValue(target, patch any) any {
	patchObj, ok := patch.(map[string]any)
	if !ok {
		return patch
	}

	targetObj, ok := target.(map[string]any)
	if !ok {
		targetObj = make(map[string]any, len(patchObj))
	}

	for key, value := range patchObj {
		if value == nil {
			delete(targetObj, key)
			continue
		}
		targetObj[key] = mergeValue(targetObj[key], value)
	}
	return targetObj
}
