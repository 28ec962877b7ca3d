package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"csorder/internal/policy"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default csorder.toml policy",
	Long: `Write csorder.toml with the default ordering policy into [dir] (the current
directory when omitted). The directory is created when missing. An existing
policy file is never overwritten unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing csorder.toml")
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	policyPath := filepath.Join(target, policy.FileNames[0])
	if _, err := os.Stat(policyPath); err == nil && !force {
		return fmt.Errorf("policy already exists: %s (use --force to overwrite)", policyPath)
	}

	var buf bytes.Buffer
	if err := policy.WriteDefault(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(policyPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write policy: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", policyPath)
	return nil
}
