package pdf

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"os/exec"
	"time"
)

type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// WkhtmltopdfRenderer pipes the html through the wkhtmltopdf binary on stdin and reads the pdf from stdout.
type WkhtmltopdfRenderer struct {
	Path string
}

func NewWkhtmltopdfRenderer(path string) *WkhtmltopdfRenderer {
	if path == "" {
		path = "wkhtmltopdf"
	}
	return &WkhtmltopdfRenderer{Path: path}
}

func (r *WkhtmltopdfRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.Path,
		"--quiet",
		"--load-error-handling", "ignore",
		"-", "-",
	)
	cmd.Stdin = bytes.NewBufferString(html)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.New("wkhtmltopdf error: " + err.Error() + " " + stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, errors.New("wkhtmltopdf produced no output")
	}
	return stdout.Bytes(), nil
}

type DischargeData struct {
	HospitalName         string
	PatientID            string
	PatientName          string
	Age                  int
	Gender               string
	OPDNumber            int
	IPDNumber            int
	AdmissionDate        time.Time
	DoctorName           string
	FinalDiagnosis       string
	Complaints           string
	ExaminationFindings  string
	ConditionOnDischarge string
	TreatmentGiven       string
	Investigations       string
	AdviceOnDischarge    string
	FollowUpDate         string
	GeneratedAt          time.Time
}

var dischargeTemplate = template.Must(template.New("discharge.html").Funcs(template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("02/01/2006 15:04")
	},
}).Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Discharge Summary</title></head>
<body>
<h2>{{.HospitalName}}</h2>
<h3>Discharge Summary</h3>
<table>
<tr><td>Patient</td><td>{{.PatientName}} ({{.PatientID}})</td></tr>
<tr><td>Age / Gender</td><td>{{.Age}} / {{.Gender}}</td></tr>
<tr><td>OPD / IPD</td><td>{{.OPDNumber}} / {{.IPDNumber}}</td></tr>
<tr><td>Admitted</td><td>{{date .AdmissionDate}}</td></tr>
<tr><td>Doctor</td><td>{{.DoctorName}}</td></tr>
</table>
<h4>Final Diagnosis</h4><p>{{.FinalDiagnosis}}</p>
<h4>Complaints</h4><p>{{.Complaints}}</p>
<h4>Examination Findings</h4><p>{{.ExaminationFindings}}</p>
<h4>Condition On Discharge</h4><p>{{.ConditionOnDischarge}}</p>
{{if .TreatmentGiven}}<h4>Treatment Given</h4><p>{{.TreatmentGiven}}</p>{{end}}
{{if .Investigations}}<h4>Investigations</h4><p>{{.Investigations}}</p>{{end}}
{{if .AdviceOnDischarge}}<h4>Advice On Discharge</h4><p>{{.AdviceOnDischarge}}</p>{{end}}
{{if .FollowUpDate}}<p>Follow up on {{.FollowUpDate}}</p>{{end}}
<p>Generated {{date .GeneratedAt}}</p>
</body></html>`))

func BuildDischargeHTML(data DischargeData) (string, error) {
	var buf bytes.Buffer
	if err := dischargeTemplate.Execute(&buf, data); err != nil {
		return "", errors.New("template execute error: " + err.Error())
	}
	return buf.String(), nil
}
