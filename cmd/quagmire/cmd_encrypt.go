package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stblake/quagmire/cipher"
	"github.com/stblake/quagmire/config"
	"github.com/stblake/quagmire/utils"
)

// keyState builds the state for a fully specified key. Every keyword the
// type searches for must be given.
func keyState(c config.Config, cycleword string) (*cipher.State, cipher.Spec, error) {
	sp := c.Cipher.Type.Spec()
	var err error
	if c.Cipher.PlaintextKeyword != "" {
		if sp, err = sp.WithPlaintextKeyword(c.Cipher.PlaintextKeyword); err != nil {
			return nil, sp, err
		}
	}
	if c.Cipher.CiphertextKeyword != "" {
		if sp, err = sp.WithCiphertextKeyword(c.Cipher.CiphertextKeyword); err != nil {
			return nil, sp, err
		}
	}
	if sp.Plaintext == cipher.RoleFree {
		return nil, sp, fmt.Errorf("%s needs --plaintext-keyword", sp.Name)
	}
	if sp.Ciphertext == cipher.RoleFree {
		return nil, sp, fmt.Errorf("%s needs --ciphertext-keyword", sp.Name)
	}
	cw, err := cipher.ParseCycleword(cycleword)
	if err != nil {
		return nil, sp, err
	}
	// no keyword is free, so nothing here is random
	s := sp.RandomState(rand.New(rand.NewSource(1)), 0, 0, len(cw))
	copy(s.Cycleword, cw)
	return s, sp, nil
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	return transform(cmd, args, true)
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	return transform(cmd, args, false)
}

func transform(cmd *cobra.Command, args []string, encrypt bool) error {
	cycleword, _ := cmd.Flags().GetString("cycleword")
	s, sp, err := keyState(cfg, cycleword)
	if err != nil {
		return err
	}

	var in []int
	n, _ := cmd.Flags().GetInt("random")
	if encrypt && n > 0 {
		seed := cfg.Search.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		in = utils.SampleEnglish(rand.New(rand.NewSource(seed)), n)
		logger.Info("sampled plaintext", "seed", seed, "plaintext", utils.Chr(in))
	} else {
		text, err := readText(args, os.Stdin)
		if err != nil {
			return err
		}
		text = strings.Join(strings.Fields(text), "")
		if in, err = utils.ParseText(text, cfg.Input.MaxCipherLen); err != nil {
			return err
		}
	}

	out := make([]int, len(in))
	if encrypt {
		cipher.Encipher(out, in, s, cfg.Cipher.Variant, sp.Beaufort)
	} else {
		cipher.Decipher(out, in, s, cfg.Cipher.Variant, sp.Beaufort)
	}
	logger.Debug("key", "state", s.String())
	_, err = fmt.Fprintln(cmd.OutOrStdout(), utils.Chr(out))
	return err
}
