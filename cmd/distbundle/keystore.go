package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/provide-io/distbundle/pkg"
	"github.com/provide-io/distbundle/pkg/toolchain"
)

func newTempKeystoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "temp-keystore",
		Short: "Create a keystore with keytool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}
			toolArgs, err := toolchain.SplitArgs(v.GetString("keytool_parameters"))
			if err != nil {
				return &invalidArgsError{err: err}
			}

			return pkg.CreateKeystore(cmd.Context(), toolchain.KeystoreOptions{
				JDKPath:   v.GetString("jdk_path"),
				Keystore:  v.GetString("keystore"),
				Overwrite: v.GetBool("overwrite"),
				Args:      toolArgs,
				Verbose:   v.GetBool("verbose"),
			}, logger)
		},
	}

	f := cmd.Flags()
	f.String("jdk-path", os.Getenv("JAVA_HOME"), "JDK providing keytool")
	f.String("keystore", "target/keystore.jks", "Keystore to create")
	f.Bool("overwrite", false, "Replace an existing keystore")
	f.String("keytool-parameters", "", "keytool arguments, "+toolchain.KeystorePlaceholder+" is replaced by the keystore path")
	return cmd
}

func newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign jar files with jarsigner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}
			toolArgs, err := toolchain.SplitArgs(v.GetString("sign_parameters"))
			if err != nil {
				return &invalidArgsError{err: err}
			}
			jars, _ := cmd.Flags().GetStringArray("jar")

			signed, err := pkg.SignJars(cmd.Context(), toolchain.SignOptions{
				JDKPath:   v.GetString("jdk_path"),
				Files:     jars,
				LibFolder: v.GetString("lib_folder"),
				LibFilter: v.GetString("lib_filter"),
				Args:      toolArgs,
				Verbose:   v.GetBool("verbose"),
			}, logger)
			for _, s := range signed {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.String("jdk-path", os.Getenv("JAVA_HOME"), "JDK providing jarsigner")
	f.StringArray("jar", nil, "Jar to sign first, repeatable")
	f.String("lib-folder", "", "Folder searched for further jars")
	f.String("lib-filter", "*.jar", "Glob applied inside the lib folder")
	f.String("sign-parameters", "", "jarsigner arguments, "+toolchain.JarPlaceholder+" is replaced by each jar")
	return cmd
}
