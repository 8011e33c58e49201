package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	ecfp "ecfp.dev"
	"ecfp.dev/digits"
	"ecfp.dev/ecdh"
	"ecfp.dev/ecdsa"
)

// errSignatureInvalid makes verify exit non-zero on a bad signature.
var errSignatureInvalid = errors.New("signature invalid")

func runCurves(_ *cliContext, cmd *cobra.Command) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"name", "field bits", "order bits", "a", "naf width"})
	for _, name := range ecfp.CurveNames() {
		c, err := ecfp.CurveByName(name)
		if err != nil {
			return err
		}
		a := "-3"
		if c.AEqualsZero() {
			a = "0"
		}
		table.Append([]string{
			c.Name(),
			strconv.Itoa(c.FieldBits()),
			strconv.Itoa(c.OrderBits()),
			a,
			strconv.Itoa(c.NAFWidth()),
		})
	}
	table.Render()
	return nil
}

func runScalarMult(ctx *cliContext, cmd *cobra.Command) error {
	c, err := ecfp.CurveByName(ctx.curve)
	if err != nil {
		return err
	}
	kb, err := decodeHex("k", ctx.k)
	if err != nil {
		return err
	}
	k := digits.FromBytes(kb)
	if digits.Compare(k, c.Order()) > 0 {
		return errors.Newf("--k exceeds the order of %s", c.Name())
	}

	p := c.Generator()
	if ctx.point != "" {
		pb, err := decodeHex("point", ctx.point)
		if err != nil {
			return err
		}
		if p, err = ecfp.DecodePoint(c, pb); err != nil {
			return errors.Wrap(err, "--point")
		}
	}

	out := c.AllocatePointStorage()
	ecfp.NewOperator(c).ScalarMultiply(k, p, out)
	glog.V(1).Infof("%s: k*P = %s", c.Name(), out)
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(ecfp.EncodePoint(out)))
	return nil
}

func runKeygen(ctx *cliContext, cmd *cobra.Command) error {
	c, err := ecfp.CurveByName(ctx.curve)
	if err != nil {
		return err
	}
	priv, err := ecdsa.GenerateKey(c, rand.Reader)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "private: %x\npublic:  %x\n", priv.Bytes(), priv.PublicKey.Bytes())
	return nil
}

func runECDH(ctx *cliContext, cmd *cobra.Command) error {
	c, err := ecfp.CurveByName(ctx.curve)
	if err != nil {
		return err
	}
	privBytes, err := decodeHex("priv", ctx.priv)
	if err != nil {
		return err
	}
	pubBytes, err := decodeHex("pub", ctx.pub)
	if err != nil {
		return err
	}
	priv, err := ecdh.NewPrivateKey(c, privBytes)
	if err != nil {
		return err
	}
	pub, err := ecdh.NewPublicKey(c, pubBytes)
	if err != nil {
		return err
	}
	secret, err := ecdh.DeriveBits(priv, pub)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(secret))
	return nil
}

func runSign(ctx *cliContext, cmd *cobra.Command) error {
	c, err := ecfp.CurveByName(ctx.curve)
	if err != nil {
		return err
	}
	privBytes, err := decodeHex("priv", ctx.priv)
	if err != nil {
		return err
	}
	priv, err := ecdsa.NewPrivateKey(c, privBytes)
	if err != nil {
		return err
	}
	sig, err := ecdsa.Sign(priv, ctx.hash, []byte(ctx.msg))
	if err != nil {
		return err
	}
	if ctx.der {
		if sig, err = ecdsa.MarshalDER(sig); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(sig))
	return nil
}

func runVerify(ctx *cliContext, cmd *cobra.Command) error {
	c, err := ecfp.CurveByName(ctx.curve)
	if err != nil {
		return err
	}
	pubBytes, err := decodeHex("pub", ctx.pub)
	if err != nil {
		return err
	}
	sig, err := decodeHex("sig", ctx.sig)
	if err != nil {
		return err
	}
	pub, err := ecdsa.NewPublicKey(c, pubBytes)
	if err != nil {
		return err
	}
	if ctx.der {
		if sig, err = ecdsa.ParseDER(c, sig); err != nil {
			return err
		}
	}
	ok, err := ecdsa.Verify(pub, ctx.hash, []byte(ctx.msg), sig)
	if err != nil {
		return err
	}
	if !ok {
		return errSignatureInvalid
	}
	fmt.Fprintln(cmd.OutOrStdout(), "valid")
	return nil
}

func runModExp(ctx *cliContext, cmd *cobra.Command) error {
	base, err := decodeHex("base", ctx.base)
	if err != nil {
		return err
	}
	exp, err := decodeHex("exp", ctx.exp)
	if err != nil {
		return err
	}
	mod, err := decodeHex("mod", ctx.mod)
	if err != nil {
		return err
	}
	if digits.IsZero(digits.FromBytes(mod)) {
		return errors.New("--mod must be non-zero")
	}

	g := digits.NewIntegerGroup(mod)
	out := g.CreateElementFromInteger(0)
	g.ModExp(g.CreateElementFromBytes(base), digits.FromBytes(exp), out)
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out.Bytes()))
	return nil
}
