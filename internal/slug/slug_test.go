// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"strings"
	"testing"
)

// TestGenerate exercises the slug generator with typical news titles,
// accented input, punctuation and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Salon Auto 2026", want: "salon-auto-2026"},
		{name: "single word", input: "GoLang", want: "golang"},

		// --- Accents ---
		{name: "french title", input: "Nouveau Modèle 2025!", want: "nouveau-modele-2025"},
		{name: "cedilla and circumflex", input: "Façade fenêtre", want: "facade-fenetre"},
		{name: "german umlauts", input: "Über die Brücke", want: "uber-die-brucke"},
		{name: "uppercase accents", input: "ÉLECTRIQUE À ALGER", want: "electrique-a-alger"},
		{name: "réglementation", input: "Réglementation: les nouvelles règles", want: "reglementation-les-nouvelles-regles"},

		// --- Punctuation becomes a single separator ---
		{name: "punctuation marks", input: "Hello, World! How's it going?", want: "hello-world-how-s-it-going"},
		{name: "ampersand", input: "Rock & Roll @ the Arena", want: "rock-roll-the-arena"},
		{name: "version number", input: "Version (2.0) [Beta]", want: "version-2-0-beta"},
		{name: "slashes", input: "Essence/Diesel | Hybride", want: "essence-diesel-hybride"},
		{name: "tabs and newlines", input: "hello\tworld\nagain", want: "hello-world-again"},

		// --- Separators at the edges ---
		{name: "leading and trailing spaces", input: "  hello world  ", want: "hello-world"},
		{name: "leading hyphens", input: "---hello world", want: "hello-world"},
		{name: "hyphen runs", input: "  --hello -- world--  ", want: "hello-world"},

		// --- Edge cases ---
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "     ", want: ""},
		{name: "only special characters", input: "!@#$%^&*()", want: ""},
		{name: "non latin script dropped", input: "Prix 你好 2026", want: "prix-2026"},
		{name: "single character", input: "A", want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerateProperties checks that output never carries accents,
// doubled separators or edge separators, and that Generate is idempotent.
func TestGenerateProperties(t *testing.T) {
	inputs := []string{
		"Nouveau Modèle 2025!",
		"  Prix des véhicules -- en hausse ",
		"Œuvre d'art à 100%",
		"---",
		"Déjà vu: la Clio revient",
	}

	for _, in := range inputs {
		got := Generate(in)
		for _, r := range got {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				t.Errorf("Generate(%q) = %q contains %q", in, got, r)
			}
		}
		if strings.Contains(got, "--") {
			t.Errorf("Generate(%q) = %q has consecutive separators", in, got)
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Generate(%q) = %q has edge separator", in, got)
		}
		if again := Generate(got); again != got {
			t.Errorf("Generate not idempotent: %q -> %q -> %q", in, got, again)
		}
	}
}
