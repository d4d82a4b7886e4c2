package main

import (
	"github.com/spf13/cobra"

	"github.com/stblake/quagmire/report"
)

func runEstimate(cmd *cobra.Command, _ []string) error {
	ct, err := loadCiphertext(cfg.Input.CiphertextFile, cfg.Input.MaxCipherLen)
	if err != nil {
		return err
	}
	c, err := loadCrib(cfg.Input.CribFile, len(ct))
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	e := report.NewEstimate(ct, c, cfg.Cycleword.MaxLen, cfg.Cycleword.NSigma, cfg.Cycleword.IoCFloor)
	out := cmd.OutOrStdout()
	return report.WriteEstimate(out, e, format, colorFor(out))
}
