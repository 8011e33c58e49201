package main

import (
	"encoding/hex"
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	ecfp "ecfp.dev"
	"ecfp.dev/ecdsa"
)

// envLogLevel is consulted when --log-level is not given.
const envLogLevel = "ECFP_LOG_LEVEL"

// cliContext holds the flag values of one invocation.
type cliContext struct {
	logLevel string

	curve string
	hash  string
	der   bool

	k, point string
	priv     string
	pub      string
	msg      string
	sig      string

	base, exp, mod string
}

var flagUsage = map[string]string{
	"log-level": "glog verbosity (0 is quiet); defaults to $" + envLogLevel,
	"curve":     "named curve: " + strings.Join(ecfp.CurveNames(), ", "),
	"hash":      "digest: SHA-1, SHA-256, SHA-384 or SHA-512",
	"der":       "read and write signatures as ASN.1 DER instead of r || s",
	"k":         "scalar, big-endian hex",
	"point":     "uncompressed SEC1 point in hex; defaults to the generator",
	"priv":      "private scalar, big-endian hex",
	"pub":       "uncompressed SEC1 public key in hex",
	"msg":       "message text",
	"sig":       "signature in hex",
	"base":      "base, big-endian hex",
	"exp":       "exponent, big-endian hex",
	"mod":       "modulus, big-endian hex",
}

func usage(name string) string {
	u, ok := flagUsage[name]
	if !ok {
		panic(errors.AssertionFailedf("no usage for flag %q", name))
	}
	return u
}

func normalizeStdFlagName(s string) string {
	return strings.Replace(s, "_", "-", -1)
}

func newRootCmd() *cobra.Command {
	ctx := &cliContext{curve: "P-256", hash: ecdsa.SHA256}

	root := &cobra.Command{
		Use:           "ecfp",
		Short:         "elliptic curve and modular arithmetic tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setLogLevel(ctx.logLevel)
		},
	}

	// Map glog's flags, registered on the standard flag set, onto the
	// top-level command.
	pf := root.PersistentFlags()
	flag.VisitAll(func(f *flag.Flag) {
		p := pflag.PFlagFromGoFlag(f)
		p.Name = normalizeStdFlagName(f.Name)
		if pf.Lookup(p.Name) == nil {
			pf.AddFlag(p)
		}
	})
	pf.StringVar(&ctx.logLevel, "log-level", "", usage("log-level"))

	curveFlag := func(f *pflag.FlagSet) {
		f.StringVar(&ctx.curve, "curve", ctx.curve, usage("curve"))
	}
	hashFlag := func(f *pflag.FlagSet) {
		f.StringVar(&ctx.hash, "hash", ctx.hash, usage("hash"))
		f.BoolVar(&ctx.der, "der", false, usage("der"))
	}
	required := func(cmd *cobra.Command, names ...string) {
		for _, name := range names {
			if err := cmd.MarkFlagRequired(name); err != nil {
				panic(err)
			}
		}
	}

	curvesCmd := &cobra.Command{
		Use:   "curves",
		Short: "lists the named curves",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runCurves(ctx, cmd) },
	}

	scalarMultCmd := &cobra.Command{
		Use:   "scalarmult",
		Short: "computes k*P on a curve",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runScalarMult(ctx, cmd) },
	}
	curveFlag(scalarMultCmd.Flags())
	scalarMultCmd.Flags().StringVar(&ctx.k, "k", "", usage("k"))
	scalarMultCmd.Flags().StringVar(&ctx.point, "point", "", usage("point"))
	required(scalarMultCmd, "k")

	keygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "generates a key pair",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runKeygen(ctx, cmd) },
	}
	curveFlag(keygenCmd.Flags())

	ecdhCmd := &cobra.Command{
		Use:   "ecdh",
		Short: "derives the ECDH shared x coordinate",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runECDH(ctx, cmd) },
	}
	curveFlag(ecdhCmd.Flags())
	ecdhCmd.Flags().StringVar(&ctx.priv, "priv", "", usage("priv"))
	ecdhCmd.Flags().StringVar(&ctx.pub, "pub", "", usage("pub"))
	required(ecdhCmd, "priv", "pub")

	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "signs a message with deterministic ECDSA",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runSign(ctx, cmd) },
	}
	curveFlag(signCmd.Flags())
	hashFlag(signCmd.Flags())
	signCmd.Flags().StringVar(&ctx.priv, "priv", "", usage("priv"))
	signCmd.Flags().StringVar(&ctx.msg, "msg", "", usage("msg"))
	required(signCmd, "priv")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "verifies an ECDSA signature",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runVerify(ctx, cmd) },
	}
	curveFlag(verifyCmd.Flags())
	hashFlag(verifyCmd.Flags())
	verifyCmd.Flags().StringVar(&ctx.pub, "pub", "", usage("pub"))
	verifyCmd.Flags().StringVar(&ctx.msg, "msg", "", usage("msg"))
	verifyCmd.Flags().StringVar(&ctx.sig, "sig", "", usage("sig"))
	required(verifyCmd, "pub", "sig")

	modexpCmd := &cobra.Command{
		Use:   "modexp",
		Short: "computes base^exp mod m",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runModExp(ctx, cmd) },
	}
	modexpCmd.Flags().StringVar(&ctx.base, "base", "", usage("base"))
	modexpCmd.Flags().StringVar(&ctx.exp, "exp", "", usage("exp"))
	modexpCmd.Flags().StringVar(&ctx.mod, "mod", "", usage("mod"))
	required(modexpCmd, "base", "exp", "mod")

	root.AddCommand(curvesCmd, scalarMultCmd, keygenCmd, ecdhCmd, signCmd, verifyCmd, modexpCmd)
	return root
}

// setLogLevel sets the glog verbosity from the flag or the environment.
func setLogLevel(level string) error {
	if level == "" {
		level = os.Getenv(envLogLevel)
	}
	if level == "" {
		return nil
	}
	if _, err := strconv.Atoi(level); err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	return flag.Set("v", level)
}

func decodeHex(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, errors.Wrapf(err, "--%s", name)
	}
	return b, nil
}
