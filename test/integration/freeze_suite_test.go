//go:build integration

package integration

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFreezeIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Freeze Integration Suite")
}
