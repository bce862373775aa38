package report

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/phanicodella/talentsync/internal/models"
)

// Renderer turns an interview session into a paginated PDF report. Output is
// deterministic given the same session and render time. Sessions without
// feedback render with the feedback sections omitted.
type Renderer struct {
	now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// SetClock overrides the footer timestamp source for tests.
func (r *Renderer) SetClock(now func() time.Time) { r.now = now }

// Render produces the PDF bytes for one session.
func (r *Renderer) Render(session *models.InterviewSession) ([]byte, error) {
	renderedAt := r.now()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Generated on %s", renderedAt.Format("January 2, 2006 at 3:04:05 PM")),
			"", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	heading := func(text string) {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}
	body := func(text string) {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 5.5, text, "", "L", false)
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Interview Results Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	heading("Candidate Information")
	body(fmt.Sprintf("Name: %s", session.CandidateName))
	body(fmt.Sprintf("Email: %s", session.Candidate))
	body(fmt.Sprintf("Date: %s", session.StartTime.Format("January 2, 2006, 3:04 PM")))
	if session.EndTime != nil {
		body(fmt.Sprintf("Duration: %s", formatDuration(session.DurationSeconds())))
	}
	pdf.Ln(4)

	heading("Overall Performance")
	body(fmt.Sprintf("Overall Score: %d%%", OverallPercentage(session.Answers)))
	pdf.Ln(4)

	heading("Question Analysis")
	for i, answer := range session.Answers {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 5.5, fmt.Sprintf("Question %d: %s", i+1, answer.Question), "", "L", false)
		body(fmt.Sprintf("Answer: %s", answer.Answer))
		body(fmt.Sprintf("Duration: %s", formatDuration(answer.Duration)))
		body("Scores:")
		body(fmt.Sprintf("  - Clarity: %.0f/10", answer.Analysis.Clarity))
		body(fmt.Sprintf("  - Relevance: %.0f/10", answer.Analysis.Relevance))
		body(fmt.Sprintf("  - Confidence: %.0f/10", answer.Analysis.Confidence))
		pdf.Ln(3)
	}

	if session.Feedback != nil {
		pdf.AddPage()

		heading("Strengths")
		for _, s := range session.Feedback.Strengths {
			body("- " + s)
		}
		pdf.Ln(3)

		heading("Areas for Improvement")
		for _, s := range session.Feedback.Improvements {
			body("- " + s)
		}
		pdf.Ln(3)

		heading("Detailed Feedback")
		body(session.Feedback.AIAnalysis)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}
	return buf.Bytes(), nil
}

// OverallPercentage is the rounded mean of the per-answer score means,
// rescaled from the 1-10 axis to a percentage. Empty histories score 0.
func OverallPercentage(answers []models.AnsweredQuestion) int {
	if len(answers) == 0 {
		return 0
	}
	var total float64
	for _, a := range answers {
		total += a.Analysis.Mean()
	}
	return int(math.Round(total / float64(len(answers)) * 10))
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
