package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/u-blox/arrayify/internal/config"
	"github.com/u-blox/arrayify/pkg/carray"
)

// doctorCmd represents the doctor command.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment the generated arrays will be used in",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Checking environment...")

		// Check C compiler
		compiler := checkCompiler()

		// Check arrayify.yaml
		checkConfig()

		// Compile-check a sample conversion
		if compiler != "" {
			checkSyntax(compiler)
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// checkCompiler verifies if a C compiler is available in the system PATH.
// arrayify does not need one itself, but its output only ever feeds a C
// build, so a missing compiler usually means a misconfigured environment.
// It returns the compiler found, or an empty string.
func checkCompiler() string {
	fmt.Print("Checking for C compiler... ")

	// Check for cl.exe (MSVC)
	if runtime.GOOS == "windows" {
		if _, err := exec.LookPath("cl.exe"); err == nil {
			fmt.Println("Found MSVC (cl.exe)")
			return "cl.exe"
		}
	}

	for _, name := range []string{"cc", "gcc", "clang"} {
		if _, err := exec.LookPath(name); err == nil {
			fmt.Printf("Found %s\n", name)
			return name
		}
	}

	fmt.Println("NOT FOUND")
	fmt.Println("Warning: No C compiler found. Generated arrays cannot be compile-checked.")
	return ""
}

// checkConfig reports whether arrayify.yaml in the working directory
// parses and validates.
func checkConfig() {
	fmt.Print("Checking for arrayify.yaml... ")

	if _, err := os.Stat(config.DefaultFile); os.IsNotExist(err) {
		fmt.Println("not present (built-in defaults apply)")
		return
	}

	cfg, err := config.Load(config.DefaultFile, true)
	if err == nil {
		config.ApplyDefaults(cfg)
		err = config.Validate(cfg)
	}
	if err != nil {
		fmt.Println("BROKEN")
		fmt.Printf("Warning: %v\n", err)
		return
	}
	fmt.Println("OK")
}

// checkSyntax runs a sample through the encoder, wraps the declaration in
// a translation unit and asks the compiler to syntax-check it.
func checkSyntax(compiler string) {
	fmt.Print("Compile-checking a sample conversion... ")

	var decl strings.Builder
	if _, err := carray.Encode(&decl, strings.NewReader("sample \"text\"\twith escapes\n"), carray.Options{
		Name:        "arrayify_doctor_sample",
		SourceLabel: "doctor",
	}); err != nil {
		fmt.Println("FAILED")
		fmt.Printf("Warning: %v\n", err)
		return
	}

	dir, err := os.MkdirTemp("", "arrayify-doctor")
	if err != nil {
		fmt.Println("SKIPPED")
		fmt.Printf("Warning: cannot create temp dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "sample.c")
	tu := decl.String() + "\nint main(void) { (void) arrayify_doctor_sample; return 0; }\n"
	if err := os.WriteFile(src, []byte(tu), 0644); err != nil {
		fmt.Println("SKIPPED")
		fmt.Printf("Warning: cannot write sample: %v\n", err)
		return
	}

	args := []string{"-x", "c", "-fsyntax-only", src}
	if compiler == "cl.exe" {
		args = []string{"/nologo", "/Zs", src}
	}
	if out, err := exec.Command(compiler, args...).CombinedOutput(); err != nil {
		fmt.Println("FAILED")
		fmt.Printf("Warning: %s reported: %v\n%s", compiler, err, out)
		return
	}
	fmt.Println("OK")
}
