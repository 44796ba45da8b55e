package validate

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestMustRegister_PanicsOnRefusedTag(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("mustRegister accepted an empty tag")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "validate: register") {
			t.Fatalf("panic = %v", r)
		}
	}()
	mustRegister(validator.New(), "", func(string) bool { return true })
}

func TestMustRegister_RuleRuns(t *testing.T) {
	v := validator.New()
	mustRegister(v, "shout", func(s string) bool { return s == strings.ToUpper(s) })
	if err := v.Var("LOUD", "shout"); err != nil {
		t.Fatalf("Var(LOUD) = %v", err)
	}
	if err := v.Var("quiet", "shout"); err == nil {
		t.Fatal("Var(quiet) passed")
	}
}
