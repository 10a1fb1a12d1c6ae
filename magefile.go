//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles every executable
func Build() error {
	mg.Deps(BuildOccupancy, BuildSim)
	fmt.Println("Compilation finished")
	return nil
}

func BuildOccupancy() error {
	fmt.Println("Building eboccupancy executable...")
	return goBuild("./bin/eboccupancy", "./eboccupancy")
}

func BuildSim() error {
	fmt.Println("Building ebsim executable...")
	return goBuild("./bin/ebsim", "./ebsim")
}

// Test runs the unit tests. HDF5 tests need the C library, as the builds do.
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func goBuild(output string, pkg string) error {
	cmd := exec.Command("go", "build", "-o", output, pkg)
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func cgoEnv() []string {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	return append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
}
