package cmd

import (
	"testing"
)

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{"serve", "mcp", "ask", "directory", "version"}

	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestAskCommand_RequiresArgs(t *testing.T) {
	if err := askCmd.Args(askCmd, nil); err == nil {
		t.Error("ask without arguments should fail validation")
	}
	if err := askCmd.Args(askCmd, []string{"where is my order"}); err != nil {
		t.Errorf("ask with a question should pass validation: %v", err)
	}
}

func TestVersionDefaults(t *testing.T) {
	if Version == "" {
		t.Error("Version must not be empty")
	}
}
