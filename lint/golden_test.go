// Copyright © 2024 The pystyle authors

package lint_test

import (
	"testing"

	"github.com/luthersystems/pystyle/pystyletest"
)

func TestGolden(t *testing.T) {
	r := &pystyletest.Runner{}
	r.RunGolden(t, "testdata")
}
