// Command ebxtx is a thin harness exercising the transaction construction
// and signing pipeline end to end: genkey produces a keypair, build selects
// inputs against a UTXO set, and sign fills in placeholder input scripts. It
// has no persistence and no network calls.
package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dan/ebx-txlib/ebxkey"
	"github.com/dan/ebx-txlib/ebxscript"
	"github.com/dan/ebx-txlib/ebxtx"
	"github.com/hashicorp/go-hclog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "ebxtx:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: ebxtx <genkey|build|sign> [flags]")
	}

	switch args[0] {
	case "genkey":
		return runGenkey(args[1:])
	case "build":
		return runBuild(args[1:])
	case "sign":
		return runSign(args[1:])
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func newLogger(verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{Name: "ebxtx", Level: level})
}

// --- genkey ---

type genkeyOutput struct {
	PrivStr string `json:"priv_str"`
	PubHex  string `json:"pub_hex"`
	PkhHex  string `json:"pkh_hex"`
}

func runGenkey(args []string) error {
	fs := flag.NewFlagSet("genkey", flag.ContinueOnError)
	fs.Parse(args)

	priv, err := ebxkey.FromRandom()
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	pub, err := ebxkey.PubKeyFromPriv(priv)
	if err != nil {
		return fmt.Errorf("derive pub key: %w", err)
	}
	pkh := ebxkey.PkhFromPubKey(pub)
	pubBuf := pub.Bytes()

	out := genkeyOutput{
		PrivStr: priv.ToStrictStr(),
		PubHex:  hex.EncodeToString(pubBuf[:]),
		PkhHex:  hex.EncodeToString(pkh.Bytes()[:]),
	}
	return json.NewEncoder(os.Stdout).Encode(out)
}

// --- shared JSON shapes ---

type utxoSpec struct {
	TxIDHex string `json:"txid_hex"`
	Vout    uint32 `json:"vout"`
	Value   uint64 `json:"value"`
	PkhHex  string `json:"pkh_hex"`
}

type outputSpec struct {
	Value  uint64 `json:"value"`
	PkhHex string `json:"pkh_hex"`
}

func (s utxoSpec) decode() (txID [32]byte, pkh [32]byte, err error) {
	idBuf, err := hex.DecodeString(s.TxIDHex)
	if err != nil || len(idBuf) != 32 {
		return txID, pkh, fmt.Errorf("utxo %s:%d: bad txid_hex", s.TxIDHex, s.Vout)
	}
	copy(txID[:], idBuf)

	pkhBuf, err := hex.DecodeString(s.PkhHex)
	if err != nil || len(pkhBuf) != 32 {
		return txID, pkh, fmt.Errorf("utxo %s:%d: bad pkh_hex", s.TxIDHex, s.Vout)
	}
	copy(pkh[:], pkhBuf)
	return txID, pkh, nil
}

func buildUtxoMap(specs []utxoSpec) (*ebxtx.TxOutMap, error) {
	m := ebxtx.NewTxOutMap()
	for _, spec := range specs {
		txID, pkh, err := spec.decode()
		if err != nil {
			return nil, err
		}
		m.Add(txID, spec.Vout, ebxtx.TxOut{Value: spec.Value, Script: ebxscript.FromPkhOutput(pkh)})
	}
	return m, nil
}

// --- build ---

type buildInput struct {
	Utxos        []utxoSpec   `json:"utxos"`
	Outputs      []outputSpec `json:"outputs"`
	ChangePkhHex string       `json:"change_pkh_hex"`
	LockNum      uint64       `json:"lock_num"`
}

type buildOutput struct {
	TxHex       string `json:"tx_hex"`
	InputAmount uint64 `json:"input_amount"`
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	inPath := fs.String("in", "", "path to a build-request JSON file")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("build: -in is required")
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		return fmt.Errorf("build: read request: %w", err)
	}
	var req buildInput
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("build: parse request: %w", err)
	}

	utxos, err := buildUtxoMap(req.Utxos)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	changeBuf, err := hex.DecodeString(req.ChangePkhHex)
	if err != nil || len(changeBuf) != 32 {
		return errors.New("build: bad change_pkh_hex")
	}
	var changePkh [32]byte
	copy(changePkh[:], changeBuf)

	builder := ebxtx.NewTxBuilder(utxos, ebxscript.FromPkhOutput(changePkh), req.LockNum, ebxtx.WithLogger(newLogger(*verbose)))
	for _, o := range req.Outputs {
		pkhBuf, err := hex.DecodeString(o.PkhHex)
		if err != nil || len(pkhBuf) != 32 {
			return fmt.Errorf("build: bad output pkh_hex %q", o.PkhHex)
		}
		var pkh [32]byte
		copy(pkh[:], pkhBuf)
		builder.AddOutput(ebxtx.TxOut{Value: o.Value, Script: ebxscript.FromPkhOutput(pkh)})
	}

	tx := builder.Build()

	out := buildOutput{
		TxHex:       hex.EncodeToString(tx.ToIsoBuf()),
		InputAmount: builder.InputAmount,
	}
	return json.NewEncoder(os.Stdout).Encode(out)
}

// --- sign ---

type keySpec struct {
	PkhHex  string `json:"pkh_hex"`
	PrivStr string `json:"priv_str"`
}

type signInput struct {
	TxHex string     `json:"tx_hex"`
	Utxos []utxoSpec `json:"utxos"`
	Keys  []keySpec  `json:"keys"`
}

type signOutput struct {
	TxHex   string `json:"tx_hex"`
	Ok      bool   `json:"ok"`
	Results []bool `json:"results"`
}

func runSign(args []string) error {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	inPath := fs.String("in", "", "path to a sign-request JSON file")
	verbose := fs.Bool("v", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" {
		return errors.New("sign: -in is required")
	}

	raw, err := os.ReadFile(*inPath)
	if err != nil {
		return fmt.Errorf("sign: read request: %w", err)
	}
	var req signInput
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("sign: parse request: %w", err)
	}

	txBuf, err := hex.DecodeString(req.TxHex)
	if err != nil {
		return fmt.Errorf("sign: bad tx_hex: %w", err)
	}
	tx, err := ebxtx.FromIsoBuf(txBuf)
	if err != nil {
		return fmt.Errorf("sign: parse tx: %w", err)
	}

	utxos, err := buildUtxoMap(req.Utxos)
	if err != nil {
		return fmt.Errorf("sign: %w", err)
	}

	keys := ebxtx.NewPkhKeyMap()
	for _, ks := range req.Keys {
		pkhBuf, err := hex.DecodeString(ks.PkhHex)
		if err != nil || len(pkhBuf) != 32 {
			return fmt.Errorf("sign: bad key pkh_hex %q", ks.PkhHex)
		}
		var pkh [32]byte
		copy(pkh[:], pkhBuf)

		priv, err := ebxkey.FromStrictStr(ks.PrivStr)
		if err != nil {
			return fmt.Errorf("sign: bad priv_str for pkh %s: %w", ks.PkhHex, err)
		}
		pub, err := ebxkey.PubKeyFromPriv(priv)
		if err != nil {
			return fmt.Errorf("sign: derive pub key for pkh %s: %w", ks.PkhHex, err)
		}
		keys.Add(ebxkey.NewPkh(pkh), ebxtx.Keypair{Priv: priv, Pub: pub})
	}

	signer := ebxtx.NewTxSigner(&tx, utxos, keys, ebxtx.WithSignerLogger(newLogger(*verbose)))
	results := make([]bool, len(tx.Inputs))
	ok := true
	for i := range tx.Inputs {
		results[i] = signer.Sign(i)
		ok = ok && results[i]
	}

	out := signOutput{
		TxHex:   hex.EncodeToString(tx.ToIsoBuf()),
		Ok:      ok,
		Results: results,
	}
	return json.NewEncoder(os.Stdout).Encode(out)
}
