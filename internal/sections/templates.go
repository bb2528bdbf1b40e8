package sections

import "html/template"

var templates = template.Must(template.New("sections").Parse(`
{{define "hero"}}<section class="hero">
  <h1>{{.Title}}</h1>
  {{- if .Subtitle}}
  <p class="subtitle">{{.Subtitle}}</p>
  {{- end}}
  {{- if .CTALabel}}
  <a class="button" href="{{.CTAHref}}">{{.CTALabel}}</a>
  {{- end}}
</section>
{{end}}
{{define "features"}}<section class="features">
  {{- if .Title}}
  <h2>{{.Title}}</h2>
  {{- end}}
  <div class="grid">
  {{- range .Items}}
    <article class="feature">
      {{- if .Icon}}<span class="icon">{{.Icon}}</span>{{end}}
      <h3>{{.Title}}</h3>
      <p>{{.Description}}</p>
    </article>
  {{- end}}
  </div>
</section>
{{end}}
{{define "about"}}<section class="about">
  {{- if .Title}}
  <h2>{{.Title}}</h2>
  {{- end}}
  <div class="body">{{.Body}}</div>
</section>
{{end}}
{{define "testimonials"}}<section class="testimonials">
  {{- if .Title}}
  <h2>{{.Title}}</h2>
  {{- end}}
  {{- range .Items}}
  <blockquote>
    <p>{{.Quote}}</p>
    <cite>{{.Author}}{{if .Role}}, {{.Role}}{{end}}</cite>
  </blockquote>
  {{- end}}
</section>
{{end}}
{{define "cta"}}<section class="cta">
  <h2>{{.Title}}</h2>
  {{- if .Description}}
  <p>{{.Description}}</p>
  {{- end}}
  <a class="button" href="{{.ButtonHref}}">{{.ButtonLabel}}</a>
</section>
{{end}}
{{define "contact"}}<section class="contact" id="contato">
  <h2>{{if .Title}}{{.Title}}{{else}}Contato{{end}}</h2>
  <ul>
    {{- if .Phone}}
    <li>Telefone: <a href="tel:{{.Phone}}">{{.Phone}}</a></li>
    {{- end}}
    {{- if .Email}}
    <li>E-mail: <a href="mailto:{{.Email}}">{{.Email}}</a></li>
    {{- end}}
    {{- if .WhatsApp}}
    <li>WhatsApp: {{.WhatsApp}}</li>
    {{- end}}
    {{- if .Address}}
    <li>Endereço: {{.Address}}</li>
    {{- end}}
  </ul>
</section>
{{end}}
`))
