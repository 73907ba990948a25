package check

// Aggregate flattens per-subgraph violation lists into one CheckResult,
// preserving the subgraph evaluation order and the order of violations within
// each subgraph. Status is FAILURE iff any violation is at LevelError.
func Aggregate(taskID, workflowID string, perSubgraph [][]Violation) CheckResult {
	violations := make([]Violation, 0)
	for _, vs := range perSubgraph {
		violations = append(violations, vs...)
	}

	status := StatusSuccess
	for _, v := range violations {
		if v.Level == LevelError {
			status = StatusFailure
			break
		}
	}

	return CheckResult{
		TaskID:     taskID,
		WorkflowID: workflowID,
		Status:     status,
		Violations: violations,
	}
}
