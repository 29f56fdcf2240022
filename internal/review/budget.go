package review

// ApplyBudget keeps changes in order while their combined diff size stays
// within maxBytes. The first change is always kept so a non-empty input never
// yields an empty prompt. Later changes that would overflow the budget are
// dropped whole and their paths returned. maxBytes <= 0 disables the budget.
func ApplyBudget(changes []Change, maxBytes int) (kept []Change, dropped []string) {
	if maxBytes <= 0 || len(changes) == 0 {
		return changes, nil
	}
	kept = make([]Change, 0, len(changes))
	total := 0
	for i, c := range changes {
		if i > 0 && total+len(c.Diff) > maxBytes {
			dropped = append(dropped, c.Path)
			continue
		}
		kept = append(kept, c)
		total += len(c.Diff)
	}
	return kept, dropped
}
