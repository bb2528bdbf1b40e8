package templating

import (
	"reflect"
	"regexp"
	"strings"
	"testing"
)

func TestDetectTags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"dedup first seen", "{a}{b}{a}", []string{"a", "b"}},
		{"none", "<h1>Olá</h1>", []string{}},
		{"empty", "", []string{}},
		{"underscore and digits", "{_x1} and {cidade_2}", []string{"_x1", "cidade_2"}},
		{"leading digit rejected", "{1abc} {ok}", []string{"ok"}},
		{"spaces rejected", "{ bairro } {bairro}", []string{"bairro"}},
		{"case sensitive names", "{Cidade} {cidade}", []string{"Cidade", "cidade"}},
		{"unbalanced braces", "{cidade {bairro}", []string{"bairro"}},
		{"inside mustache", "{{header}}", []string{"header"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectTags(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectTags(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestIsTagName(t *testing.T) {
	if !IsTagName("cidade") || !IsTagName("_a9") {
		t.Error("valid names rejected")
	}
	if IsTagName("9a") || IsTagName("a-b") || IsTagName("") {
		t.Error("invalid names accepted")
	}
}

func TestGeneratePageContent(t *testing.T) {
	tests := []struct {
		name     string
		template string
		v        Variation
		want     string
	}{
		{
			name:     "simple",
			template: "<h1>Bem-vindo a {cidade}</h1>",
			v:        Variation{"cidade": "São Paulo"},
			want:     "<h1>Bem-vindo a São Paulo</h1>",
		},
		{
			name:     "global and case-insensitive",
			template: "{cidade} / {CIDADE} / {Cidade}",
			v:        Variation{"cidade": "Rio"},
			want:     "Rio / Rio / Rio",
		},
		{
			name:     "missing tag stays literal",
			template: "{bairro}, {cidade}",
			v:        Variation{"cidade": "Recife"},
			want:     "{bairro}, Recife",
		},
		{
			name:     "extra key ignored",
			template: "{cidade}",
			v:        Variation{"cidade": "Natal", "estado": "RN"},
			want:     "Natal",
		},
		{
			name:     "value containing a token is not expanded again",
			template: "{a} {b}",
			v:        Variation{"a": "{b}", "b": "B"},
			want:     "{b} B",
		},
		{
			name:     "raw value keeps punctuation",
			template: "<p>{preco}</p>",
			v:        Variation{"preco": "R$ 10,00 & mais"},
			want:     "<p>R$ 10,00 & mais</p>",
		},
		{
			name:     "empty variation",
			template: "{a}",
			v:        Variation{},
			want:     "{a}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GeneratePageContent(tt.template, tt.v); got != tt.want {
				t.Errorf("GeneratePageContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeneratePageContentIsTotal(t *testing.T) {
	templates := []string{
		"{a}{b}{a}",
		"<div>{cidade}</div><span>{CIDADE}</span>",
		"{x}{y}{z}{x} {unbound}",
	}
	v := Variation{"a": "1", "b": "2", "cidade": "c", "x": "xx", "y": "", "z": "zz"}
	for _, tpl := range templates {
		out := strings.ToLower(GeneratePageContent(tpl, v))
		for _, tag := range DetectTags(tpl) {
			if _, ok := v[strings.ToLower(tag)]; !ok {
				continue
			}
			if strings.Contains(out, "{"+strings.ToLower(tag)+"}") {
				t.Errorf("tag %q survived substitution in %q", tag, out)
			}
		}
	}
}

func TestGeneratePageContentCaseCollidingKeys(t *testing.T) {
	v := Variation{"cidade": "lower", "Cidade": "upper"}
	first := GeneratePageContent("{cidade}", v)
	for i := 0; i < 20; i++ {
		if got := GeneratePageContent("{cidade}", v); got != first {
			t.Fatalf("non-deterministic result: %q vs %q", got, first)
		}
	}
	if first != "upper" {
		t.Errorf("got %q, want the lexically smallest key (%q) to win", first, "Cidade")
	}
}

func TestGenerateFileName(t *testing.T) {
	tests := []struct {
		pattern string
		v       Variation
		want    string
	}{
		{"pagina-{cidade}.html", Variation{"cidade": "São Paulo"}, "pagina-sao-paulo.html"},
		{"pagina-{cidade}.html", Variation{"cidade": "Rio de Janeiro"}, "pagina-rio-de-janeiro.html"},
		{"servico-{cidade}.html", Variation{"cidade": "centro"}, "servico-centro.html"},
		{"{bairro}-{cidade}.html", Variation{"bairro": "Vila Olímpia!", "cidade": "SP"}, "vila-olimpia-sp.html"},
		{"{x}.html", Variation{"x": "  --Ação & Reação--  "}, "acao-reacao.html"},
	}
	for _, tt := range tests {
		if got := GenerateFileName(tt.pattern, tt.v); got != tt.want {
			t.Errorf("GenerateFileName(%q, %v) = %q, want %q", tt.pattern, tt.v, got, tt.want)
		}
	}
}

var safeName = regexp.MustCompile(`^[a-z0-9-]*\.html$`)

func TestGenerateFileNameSafety(t *testing.T) {
	inputs := []string{
		"São Paulo", "Ñandú", "crème brûlée", "a/b\\c", "../../etc/passwd",
		"   ", "ÇÃO", "100% natural", "tab\tsep", "emoji 🚀 site", "MiXeD CaSe",
	}
	for _, s := range inputs {
		got := GenerateFileName("{x}.html", Variation{"x": s})
		if !safeName.MatchString(got) {
			t.Errorf("GenerateFileName for %q = %q, contains unsafe characters", s, got)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"centro", "centro"},
		{"São Paulo", "sao-paulo"},
		{"  Rio   de  Janeiro ", "rio-de-janeiro"},
		{"Ação!!!", "acao"},
		{"---", ""},
		{"already-safe-123", "already-safe-123"},
		{"Über_Straße", "uber-stra-e"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
