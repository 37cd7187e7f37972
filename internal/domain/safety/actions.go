package safety

// Item urgency labels. These describe individual corrective actions and are
// a coarser scale than the assessment-level Urgency deadlines.
const (
	ActionUrgencyImmediate = "IMMEDIATE"
	ActionUrgencyHigh      = "HIGH"
	ActionUrgencyMedium    = "MEDIUM"
)

// Prioritize orders corrective actions: critical violations first, then
// HIGH warnings, then MEDIUM warnings, each group keeping its original
// relative order. Priorities run 1..N with no gaps. The full plan is always
// returned; any truncation is a display concern.
func Prioritize(record AnalysisRecord) ActionPlan {
	plan := make(ActionPlan, 0, len(record.CriticalViolations)+len(record.Warnings))
	priority := 1

	for _, v := range record.CriticalViolations {
		plan = append(plan, actionItem(priority, ActionUrgencyImmediate, v, "30 minutes", "Varies"))
		priority++
	}

	for _, w := range record.Warnings {
		if w.Severity != SeverityHigh {
			continue
		}
		plan = append(plan, actionItem(priority, ActionUrgencyHigh, w, "1-2 hours", "Moderate"))
		priority++
	}

	for _, w := range record.Warnings {
		if w.Severity != SeverityMedium {
			continue
		}
		plan = append(plan, actionItem(priority, ActionUrgencyMedium, w, "2-4 hours", "Low-Moderate"))
		priority++
	}

	return plan
}

func actionItem(priority int, urgency string, v Violation, estTime, estCost string) ActionItem {
	action := v.Recommendation
	if action == "" {
		action = "Address violation"
	}
	return ActionItem{
		Priority:      priority,
		Urgency:       urgency,
		Action:        action,
		Violation:     v.Description,
		Location:      v.Location,
		StandardCode:  v.StandardCode,
		EstimatedTime: estTime,
		EstimatedCost: estCost,
	}
}
