// Package review renders the session for the external AI collaborator and
// talks to it. The engine's responsibility ends at producing the prompt text
// and relaying the collaborator's reply or error message; it never interprets
// error causes and never retries automatically.
package review

import (
	"fmt"
	"strings"

	"github.com/Birukzex/NCS/internal/domain"
)

// SystemInstruction frames every collaborator conversation.
const SystemInstruction = "You are a neurophysiology expert assisting a General Practitioner. " +
	"Provide clear, concise, and medically accurate advice. Always prioritize patient safety " +
	"and suggest consulting a specialist neurologist for definitive diagnosis and management."

// FormatForReview renders the aggregate as a deterministic, human-readable
// transcript: history line, risk-factor list (with an explicit "None listed"
// marker), then one line per named finding in sequence order showing the
// three qualitative channels and the effective verdict. Findings with an
// empty nerve name are placeholder rows and are skipped.
func FormatForReview(data *domain.PatientData) string {
	var b strings.Builder

	history := data.History
	if history == "" {
		history = "Not provided"
	}
	fmt.Fprintf(&b, "Patient History: %s\n\n", history)

	if len(data.RiskFactors) > 0 {
		fmt.Fprintf(&b, "Risk Factors: %s\n\n", strings.Join(data.RiskFactors, ", "))
	} else {
		b.WriteString("Risk Factors: None listed\n\n")
	}

	b.WriteString("NCS Findings:\n")
	for _, f := range data.Findings {
		if f.Nerve == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s (%s, %s): Amplitude=%s, Latency=%s, Velocity=%s. Interpretation: %s\n",
			f.Nerve, f.Side, f.Kind, f.Amplitude, f.Latency, f.Velocity, f.EffectiveVerdict())
	}

	return b.String()
}

// BuildReviewPrompt wraps the transcript in the expert-review instructions
// sent to the collaborator.
func BuildReviewPrompt(data *domain.PatientData) string {
	return fmt.Sprintf(`You are a neurophysiology expert assisting a General Practitioner with interpreting Nerve Conduction Study (NCS) results.
The user provides qualitative inputs (normal, increased, decreased, absent) instead of exact numbers.
'increased' latency is abnormal (prolonged). 'decreased' velocity is abnormal (slowed). 'decreased' or 'absent' amplitude is abnormal.

Based on the following data, please provide:
1.  **Diagnostic Reasoning:** A brief analysis of the patterns in the findings.
2.  **Suggested Additional Tests:** What other tests might help clarify the diagnosis?
3.  **Draft Report Summary:** A concise summary suitable for a patient's chart.

**Patient Data:**
%s
Structure your response clearly with headings for each section.
`, FormatForReview(data))
}
