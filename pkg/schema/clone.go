package schema

// Clone returns a deep copy of the blueprint so stores can hand out
// consistent snapshots without sharing mutable state with callers.
func (b *Blueprint) Clone() *Blueprint {
	if b == nil {
		return nil
	}
	out := *b
	out.Metadata = cloneMap(b.Metadata)
	out.Settings = cloneMap(b.Settings)
	out.Fields = cloneFields(b.Fields)
	if b.Steps != nil {
		out.Steps = make([]Step, len(b.Steps))
		for i, step := range b.Steps {
			out.Steps[i] = step.clone()
		}
	}
	return &out
}

func (s Step) clone() Step {
	out := s
	out.Fields = cloneFields(s.Fields)
	if s.GatingRules != nil {
		out.GatingRules = make([]map[string]any, len(s.GatingRules))
		for i, gate := range s.GatingRules {
			out.GatingRules[i] = cloneMap(gate)
		}
	}
	return out
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		cloned := f
		cloned.Visibility = cloneMap(f.Visibility)
		if f.Normalizers != nil {
			cloned.Normalizers = append([]string{}, f.Normalizers...)
		}
		if f.Rules != nil {
			cloned.Rules = make([]Rule, len(f.Rules))
			for j, rule := range f.Rules {
				r := rule
				r.Config = cloneMap(rule.Config)
				if rule.HaltOnFail != nil {
					halt := *rule.HaltOnFail
					r.HaltOnFail = &halt
				}
				cloned.Rules[j] = r
			}
		}
		out[i] = cloned
	}
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return cloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}
