// Command eetcli is a small command-line front end over the eet
// container format: list, read, write and remove entries, and sign or
// verify a container against an X.509 identity.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goeet/eet"
	"github.com/goeet/eet/container"
	"github.com/goeet/eet/file"
)

func main() {
	Init()
	defer Shutdown()

	rootCmd := &cobra.Command{
		Use:   "eetcli",
		Short: "Inspect and build eet container files",
	}

	rootCmd.AddCommand(
		lsCmd(),
		catCmd(),
		putCmd(),
		rmCmd(),
		signCmd(),
		verifyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func lsCmd() *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "ls <archive>",
		Short: "List entries in a container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := eet.Open(args[0], file.ModeRead)
			if err != nil {
				return err
			}
			defer h.Close()

			for _, name := range h.List(pattern) {
				fmt.Println(name)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "glob pattern to filter entry names")

	return cmd
}

func catCmd() *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "cat <archive> <entry>",
		Short: "Print an entry's decoded bytes to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := eet.Open(args[0], file.ModeRead)
			if err != nil {
				return err
			}
			defer h.Close()

			if passphrase != "" {
				if err := h.Container().Decrypt(args[1], passphrase); err != nil {
					return err
				}
			}

			data, err := h.Read(args[1])
			if err != nil {
				return err
			}

			_, err = os.Stdout.Write(data)

			return err
		},
	}

	cmd.Flags().StringVar(&passphrase, "passphrase", "", "decrypt the entry with this passphrase")

	return cmd
}

func putCmd() *cobra.Command {
	var compress bool

	var passphrase string

	cmd := &cobra.Command{
		Use:   "put <archive> <entry> <source-file>",
		Short: "Stage a file's bytes under an entry name and sync",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := eet.Open(args[0], file.ModeReadWrite)
			if err != nil {
				return err
			}
			defer h.Close()

			data, err := os.ReadFile(args[2])
			if err != nil {
				return err
			}

			if passphrase != "" {
				h.Container().Put(container.Entry{
					Name: args[1], Data: data, Compress: compress,
					Cipher: true, Passphrase: passphrase,
				})
			} else if _, err := h.Write(args[1], data, compress); err != nil {
				return err
			}

			return h.Sync()
		},
	}

	cmd.Flags().BoolVarP(&compress, "compress", "c", false, "compress the entry")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "encrypt the entry with this passphrase")

	return cmd
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <archive> <entry>",
		Short: "Remove an entry and sync",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := eet.Open(args[0], file.ModeReadWrite)
			if err != nil {
				return err
			}
			defer h.Close()

			if err := h.Delete(args[1]); err != nil {
				return err
			}

			return h.Sync()
		},
	}
}

func signCmd() *cobra.Command {
	var keyPass string

	cmd := &cobra.Command{
		Use:   "sign <archive> <cert.pem> <key.pem>",
		Short: "Attach a signing identity and re-sync the container",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cb func() string
			if keyPass != "" {
				cb = func() string { return keyPass }
			}

			id, err := eet.OpenIdentity(args[1], args[2], cb)
			if err != nil {
				return err
			}

			h, err := eet.Open(args[0], file.ModeReadWrite)
			if err != nil {
				return err
			}
			defer h.Close()

			h.SetIdentity(id)

			return h.Sync()
		},
	}

	cmd.Flags().StringVar(&keyPass, "keypass", "", "private key passphrase, if encrypted")

	return cmd
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <archive>",
		Short: "Verify a container's signature trailer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := eet.Open(args[0], file.ModeRead)
			if err != nil {
				return err
			}
			defer h.Close()

			if err := h.VerifySignature(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "signature OK")

			return nil
		},
	}
}

