package llm

import (
	"strings"

	"audit-backend/internal/extract"
)

const auditPersona = "You are a senior compliance auditor reviewing workplace documents against labor law. You are rigorous, fair, and cite the specific law behind every finding."

const auditRules = `Audit rules:
1. Do NOT flag clauses that are technically compliant, even if they could be more generous. Only report genuine violations or legally risky terms.
2. Classify the impact of every issue using exactly one of: High, Medium, Low. No other values are allowed.
3. Keep issues and positive findings strictly separate: red_flags lists violations and risks, positive_findings lists clauses that meet or exceed legal requirements.
4. Cite the applicable law or regulation for every red flag and every positive finding.
5. Base your audit on the legal reference material provided below. Where the material is silent, rely on generally accepted labor law principles and say so in the finding.`

// schemaContract is reproduced verbatim in every prompt so the model's
// output surface is unambiguous.
const schemaContract = `Respond with a single JSON object and nothing else. The object must have exactly this shape:
{
  "score": <integer 0-100, overall compliance score>,
  "summary": "<non-empty overall assessment>",
  "red_flags": [
    {
      "issue": "<description of the violation or risk>",
      "law": "<the specific law or regulation involved>",
      "impact": "<High | Medium | Low>",
      "correction": "<how to fix the clause>"
    }
  ],
  "positive_findings": [
    {
      "finding": "<description of the compliant clause>",
      "law": "<the specific law or regulation satisfied>",
      "benefit": "<why this protects the employer or employee>"
    }
  ],
  "disclaimer": "<short note that this is not legal advice>"
}`

// ComposePrompt builds the instruction payload for one audit. The legal
// context and schema contract are embedded into the system instruction;
// extracted text is inlined ahead of the instruction while PDF bytes ride
// along as an attachment.
func ComposePrompt(legalContext string, ext extract.Extraction) Prompt {
	var b strings.Builder
	b.WriteString(auditPersona)
	b.WriteString("\n\n")
	b.WriteString(auditRules)
	b.WriteString("\n\n")
	if strings.TrimSpace(legalContext) != "" {
		b.WriteString("Legal reference material:\n")
		b.WriteString(legalContext)
		b.WriteString("\n\n")
	} else {
		b.WriteString("No legal reference material is available for this audit; rely on generally accepted labor law principles.\n\n")
	}
	b.WriteString(schemaContract)

	prompt := Prompt{SystemInstruction: b.String()}

	if ext.Format == extract.FormatPDF {
		prompt.Attachment = ext.Attachment
		prompt.AttachmentMIME = ext.AttachmentMIME
		return prompt
	}

	var doc strings.Builder
	doc.WriteString("Document under audit:\n")
	doc.WriteString(ext.Text)
	prompt.DocumentText = doc.String()
	return prompt
}
