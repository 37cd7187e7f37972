package prompt

import "fmt"

// GetSystemPrompt positions the model as a BIS-trained safety inspector and
// pins the output contract to a single JSON object.
func GetSystemPrompt() string {
	return `You are an expert construction safety inspector trained in Indian BIS (Bureau of Indian Standards) codes. You analyze construction site photographs for safety violations and compliances. You must respond with one valid JSON object only: no markdown, no code fences, no commentary before or after.`
}

// GetInspectionPrompt builds the user prompt for one image analysis. It
// embeds the full standards catalog text, the seven-category inspection
// checklist, and the strict output schema with per-finding confidence
// scores.
func GetInspectionPrompt(catalogText string) string {
	return fmt.Sprintf(`Analyze this construction site image for ALL safety violations and compliances.

%s
DETECTION REQUIREMENTS:
1. Count all visible workers in the image
2. Check Personal Protective Equipment (PPE) compliance:
   - Safety helmets (IS 2925:1984)
   - Safety harness if working at height above 2m (IS 3696:1966)
   - Safety footwear (IS 5216:1982)
   - High-visibility vests (IS 15750:2008)
3. Check structural safety:
   - Scaffolding guardrails and toe boards (IS 4014:1967)
   - Ladder safety (IS 14489:1998)
   - Safety nets if height > 3m (IS 4081:1996)
   - Excavation barriers (IS 1646:1997)
4. Check electrical safety:
   - Exposed wires (IS 694:1990)
   - Proper earthing (IS 3043:1987)
5. Check fire safety:
   - Fire extinguisher visibility (IS 2190:2010)
6. Identify CRITICAL life-threatening violations
7. Note compliant safety measures

OUTPUT FORMAT (respond with valid JSON only):
{
  "total_workers": <number of visible workers>,
  "workers_compliant": <number wearing all required PPE>,
  "workers_non_compliant": <number missing any PPE>,
  "critical_violations": [
    {
      "violation": "<specific violation description>",
      "location": "<where in image: left/right/center/background/foreground>",
      "bis_code": "<relevant BIS code like IS_2925_1984>",
      "risk_level": "CRITICAL",
      "confidence": <integer 0-100 representing confidence in this finding>,
      "recommendation": "<specific action to fix>"
    }
  ],
  "warnings": [
    {
      "violation": "<warning description>",
      "location": "<location in image>",
      "bis_code": "<relevant BIS code>",
      "risk_level": "HIGH or MEDIUM",
      "confidence": <integer 0-100 representing confidence in this finding>,
      "recommendation": "<specific action>"
    }
  ],
  "compliant_items": [
    "<list of safety measures that are properly implemented>"
  ],
  "overall_compliance_score": <integer 0-100>,
  "risk_assessment": "<CRITICAL/HIGH/MEDIUM/LOW>",
  "immediate_actions": [
    "<prioritized list of actions needed immediately>"
  ],
  "estimated_compliance_cost": "₹<amount in rupees>",
  "potential_fine_if_inspected": "₹<total potential fines>"
}

IMPORTANT GUIDELINES:
- Be specific about locations (e.g., "worker on left scaffolding", "center area near excavation")
- If something is not visible in the image, mark as "Not visible/Cannot verify" in compliant_items
- Use actual BIS codes from the provided standards
- Provide realistic cost estimates in Indian Rupees
- Compliance score calculation: (compliant items / total checkable items) x 100
- Critical violations: immediate life threat (fall risk, electrical hazard, structural collapse)
- High warnings: serious safety gaps (missing PPE, inadequate barriers)
- Medium warnings: best practice improvements (better signage, better organization)
- CONFIDENCE SCORES: for each violation/warning, provide a confidence score (0-100):
  * 90-100: clear, unambiguous violation visible
  * 75-89: high confidence, some minor uncertainty
  * 60-74: moderate confidence, partially obscured or unclear
  * below 60: low confidence, mark for manual review

Respond ONLY with valid JSON. No additional text before or after.`, catalogText)
}
