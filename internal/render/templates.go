package render

// Built-in templates. A configured templates directory overrides any of
// these by providing a file with the matching name.

const emailTemplateName = "email.txt.tmpl"

const emailTemplate = `Subject: A sourced look at {{.Account.Name}}

Hi {{.Account.Name}} team,

I spent some time researching {{.Account.Name}} and wanted to reach out directly rather than send another generic pitch. {{.ToneLine}}
{{- if .ProofPoints}}

A few things stood out from your public footprint:
{{- range .ProofPoints}}
- {{.}}
{{- end}}
{{- else}}

Even at this early stage, the public signals around {{.Account.Name}} suggest a team that moves quickly, and that is exactly the kind of team we built this for.
{{- end}}

Teams like yours use our platform to turn scattered public signals into sourced, verifiable account research, so every claim in your pipeline traces back to evidence instead of guesswork.

If that resonates, I would love to show you what this looks like for {{.Account.Name}}. Would a short call later this week work?

Best regards,
{{.Sender}}

---
Call to Action: {{.CTA}}
Persona: {{.Persona}}
Generated: {{.GeneratedAt}}
`

const pitchTemplateName = "pitch.md.tmpl"

const pitchTemplate = `# Sales Pitch Outline: {{.Account.Name}}

## Agenda
{{range $i, $item := .Agenda}}
{{inc $i}}. {{$item}}
{{- end}}

## Objection Handling
{{range .Objections}}
**Objection:** {{.Objection}}

**Response:** {{.Response}}
{{end}}
---
Generated: {{.GeneratedAt}}
`

const landingHTMLTemplateName = "landing.html.tmpl"

const landingHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Solutions for {{.Account.Name}}</title>
    <link rel="stylesheet" href="styles.css">
</head>
<body>
    <div class="container">
        <header>
            <h1>Tailored Solutions for {{.Account.Name}}</h1>
            <p class="subheader">Accelerate your growth with our proven platform</p>
        </header>

        <main>
            <section class="value-props">
                <h2>Why leading {{if .Account.Industry}}{{.Account.Industry}} companies{{else}}companies{{end}} choose us</h2>
                <div class="benefits">
                    <div class="benefit">
                        <h3>&#128640; Rapid Implementation</h3>
                        <p>Deploy in weeks, not months, with our battle-tested platform</p>
                    </div>
                    <div class="benefit">
                        <h3>&#128200; Measurable ROI</h3>
                        <p>See immediate impact with comprehensive analytics and reporting</p>
                    </div>
                    <div class="benefit">
                        <h3>&#128295; Seamless Integration</h3>
                        <p>Works with your existing tools and workflows</p>
                    </div>
                </div>
            </section>
{{- if .ProofPoints}}

            <section class="proof-section">
                <h2>Built for companies like yours</h2>
                <div class="proof-points">
{{- range .ProofPoints}}
                    <div class="proof-point">
                        <p>&quot;{{.Text}}&quot;</p>
{{- if .SourceURL}}
                        <cite>Source: {{.SourceURL}}</cite>
{{- end}}
                    </div>
{{- end}}
                </div>
            </section>
{{- end}}

            <section class="cta-section">
                <h2>Ready to transform your operations?</h2>
                <p>Join {{.Account.Name}} and hundreds of other industry leaders</p>
                <button class="cta-button">{{.CTA}}</button>
                <p class="cta-note">Book a personalized demo to see how we can help {{.Account.Name}}</p>
            </section>
        </main>

        <footer>
            <p>Generated for {{.Account.Name}} &bull; {{.GeneratedMonth}}</p>
        </footer>
    </div>
</body>
</html>
`

const landingCSSTemplateName = "landing.css.tmpl"

const landingCSSTemplate = `* {
    margin: 0;
    padding: 0;
    box-sizing: border-box;
}

body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    line-height: 1.6;
    color: #333;
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    min-height: 100vh;
}

.container {
    max-width: 1200px;
    margin: 0 auto;
    padding: 2rem;
}

header {
    text-align: center;
    color: white;
    margin-bottom: 3rem;
}

header h1 {
    font-size: 3rem;
    margin-bottom: 1rem;
    font-weight: 700;
}

.subheader {
    font-size: 1.25rem;
    opacity: 0.9;
}

main {
    background: white;
    border-radius: 12px;
    padding: 3rem;
    box-shadow: 0 20px 60px rgba(0, 0, 0, 0.15);
}

section {
    margin-bottom: 3rem;
}

section h2 {
    font-size: 1.75rem;
    margin-bottom: 1.5rem;
    color: #2d3748;
}

.benefits {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(280px, 1fr));
    gap: 1.5rem;
}

.benefit {
    padding: 1.5rem;
    border: 1px solid #e2e8f0;
    border-radius: 8px;
}

.benefit h3 {
    margin-bottom: 0.5rem;
    color: #4a5568;
}

.proof-points {
    display: grid;
    gap: 1rem;
}

.proof-point {
    padding: 1.25rem;
    background: #f7fafc;
    border-left: 4px solid #667eea;
    border-radius: 4px;
}

.proof-point cite {
    display: block;
    margin-top: 0.5rem;
    font-size: 0.85rem;
    color: #718096;
}

.cta-section {
    text-align: center;
    padding: 2rem;
    background: #f7fafc;
    border-radius: 8px;
}

.cta-button {
    display: inline-block;
    margin: 1rem 0;
    padding: 0.875rem 2.5rem;
    font-size: 1.1rem;
    font-weight: 600;
    color: white;
    background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
    border: none;
    border-radius: 8px;
    cursor: pointer;
}

.cta-note {
    font-size: 0.9rem;
    color: #718096;
}

footer {
    text-align: center;
    color: white;
    margin-top: 2rem;
    opacity: 0.8;
}
`
