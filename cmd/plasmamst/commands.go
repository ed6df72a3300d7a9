package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/Layr-Labs/plasma-mst-go/pkg/merkle"
	"github.com/Layr-Labs/plasma-mst-go/pkg/plasma"
	"github.com/Layr-Labs/plasma-mst-go/pkg/proofcache"
	"github.com/Layr-Labs/plasma-mst-go/pkg/proofcache/badgercache"
	"github.com/Layr-Labs/plasma-mst-go/pkg/proofcache/memory"
	"github.com/Layr-Labs/plasma-mst-go/pkg/proofcache/rediscache"
	"github.com/Layr-Labs/plasma-mst-go/pkg/txmodel"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// openCache builds the proof cache backend named by --cache, or nil for
// "" (no caching). "memory" exists mainly so a single CLI invocation can
// exercise the cache-transparency path without any external state; it
// is discarded along with the process, so it only helps when combined
// with "prove" called multiple times for the same tree within one run.
func openCache(name string, log *zap.Logger) (proofcache.Cache, error) {
	switch name {
	case "":
		return nil, nil
	case "memory":
		return memory.New(), nil
	case "badger":
		return badgercache.New(filepath.Join(os.TempDir(), "plasmamst-proof-cache"), log)
	case "redis":
		return rediscache.New(&rediscache.Config{Address: "localhost:6379"}, log)
	default:
		return nil, fmt.Errorf("unknown --cache backend %q (want memory, badger, or redis)", name)
	}
}

// loadTransactions reads a JSON array of transaction objects from path
// and casts each one through txmodel.FromJSON. JSON unmarshals nested
// objects as map[string]interface{}, but a list of transfer objects
// comes back as []interface{}; rekeyTransfers below converts each
// element to the map type the schema's list codec expects.
func loadTransactions(path string) ([]txmodel.Transaction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var docs []map[string]interface{}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	txs := make([]txmodel.Transaction, len(docs))
	for i, doc := range docs {
		if err := rekeyTransfers(doc); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		tx, err := txmodel.FromJSON(doc)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs[i] = tx
	}
	return txs, nil
}

// rekeyTransfers replaces doc["transfers"], decoded by encoding/json as
// []interface{} of map[string]interface{} elements, with the
// []map[string]interface{} the schema list codec's Cast expects.
func rekeyTransfers(doc map[string]interface{}) error {
	raw, ok := doc["transfers"]
	if !ok {
		return fmt.Errorf("missing transfers field")
	}
	items, ok := raw.([]interface{})
	if !ok {
		return fmt.Errorf("transfers is not an array")
	}

	transfers := make([]map[string]interface{}, len(items))
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return fmt.Errorf("transfer %d is not an object", i)
		}
		transfers[i] = m
	}
	doc["transfers"] = transfers
	return nil
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "build a plasma Merkle sum tree from a block's transactions and print its root",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "transactions", Required: true, Usage: "path to a JSON file containing an array of transactions"},
		},
		Action: func(c *cli.Context) error {
			log, err := newLogger(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			txs, err := loadTransactions(c.String("transactions"))
			if err != nil {
				return err
			}

			tree, err := plasma.NewFromTransactions(txs)
			if err != nil {
				return fmt.Errorf("build tree: %w", err)
			}

			root := tree.Root()
			log.Sugar().Infow("tree built", "leaves", tree.NumLeaves(), "root_digest", hex.EncodeToString(root.Data[:]), "root_sum", root.Sum.String())

			fmt.Printf("leaves: %d\n", tree.NumLeaves())
			fmt.Printf("root digest: 0x%s\n", hex.EncodeToString(root.Data[:]))
			fmt.Printf("root sum: %s\n", root.Sum.String())
			return nil
		},
	}
}

func proveCommand() *cli.Command {
	return &cli.Command{
		Name:  "prove",
		Usage: "emit the inclusion proof for a leaf index",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "transactions", Required: true, Usage: "path to a JSON file containing an array of transactions"},
			&cli.IntFlag{Name: "index", Required: true, Usage: "leaf index to prove"},
			&cli.StringFlag{Name: "cache", Usage: "proof cache backend: memory, badger, or redis (default: none)"},
		},
		Action: func(c *cli.Context) error {
			log, err := newLogger(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			txs, err := loadTransactions(c.String("transactions"))
			if err != nil {
				return err
			}

			tree, err := plasma.NewFromTransactions(txs)
			if err != nil {
				return fmt.Errorf("build tree: %w", err)
			}

			cache, err := openCache(c.String("cache"), log)
			if err != nil {
				return fmt.Errorf("open proof cache: %w", err)
			}
			if cache != nil {
				defer func() { _ = cache.Close() }()
			}

			index := c.Int("index")
			proof, err := tree.GetInclusionProofCached(index, cache)
			if err != nil {
				return fmt.Errorf("get inclusion proof: %w", err)
			}

			ref, err := tree.LeafRef(index)
			if err != nil {
				return fmt.Errorf("get leaf reference: %w", err)
			}

			encoded := plasma.EncodeProof(proof)
			log.Sugar().Infow("proof generated", "index", index, "tx_index", ref.TxIndex, "transfer_index", ref.TransferIndex, "elements", len(proof))

			fmt.Printf("tx_index: %d\n", ref.TxIndex)
			fmt.Printf("transfer_index: %d\n", ref.TransferIndex)
			fmt.Printf("proof: 0x%s\n", hex.EncodeToString(encoded))
			return nil
		},
	}
}

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "check an inclusion proof against a root",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "transactions", Required: true, Usage: "path to a JSON file containing an array of transactions"},
			&cli.IntFlag{Name: "tx-index", Required: true},
			&cli.IntFlag{Name: "leaf-index", Required: true},
			&cli.IntFlag{Name: "transfer-index", Value: 0},
			&cli.StringFlag{Name: "proof", Required: true, Usage: "hex-encoded proof, as emitted by the prove subcommand"},
			&cli.StringFlag{Name: "root-digest", Required: true, Usage: "hex-encoded 32-byte root digest"},
			&cli.StringFlag{Name: "root-sum", Required: true, Usage: "decimal root sum"},
		},
		Action: func(c *cli.Context) error {
			log, err := newLogger(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			txs, err := loadTransactions(c.String("transactions"))
			if err != nil {
				return err
			}

			txIndex := c.Int("tx-index")
			if txIndex < 0 || txIndex >= len(txs) {
				return fmt.Errorf("tx-index %d out of range", txIndex)
			}

			proof, err := plasma.DecodeProof(strings.TrimPrefix(c.String("proof"), "0x"))
			if err != nil {
				return fmt.Errorf("decode proof: %w", err)
			}

			digestHex := strings.TrimPrefix(c.String("root-digest"), "0x")
			digestBytes, err := hex.DecodeString(digestHex)
			if err != nil || len(digestBytes) != 32 {
				return fmt.Errorf("root-digest must be 32 bytes of hex")
			}
			var digest [32]byte
			copy(digest[:], digestBytes)

			sum, ok := new(big.Int).SetString(c.String("root-sum"), 10)
			if !ok {
				return fmt.Errorf("root-sum must be a decimal integer")
			}

			root := merkle.Node{Data: digest, Sum: sum}

			bounds := plasma.CheckInclusionAndGetBounds(c.Int("leaf-index"), txs[txIndex], c.Int("transfer-index"), proof, root)

			log.Sugar().Infow("verification complete", "valid", bounds.Valid)

			fmt.Printf("valid: %t\n", bounds.Valid)
			if bounds.ImplicitStart != nil {
				fmt.Printf("implicit_start: %s\n", bounds.ImplicitStart.String())
			}
			if bounds.ImplicitEnd != nil {
				fmt.Printf("implicit_end: %s\n", bounds.ImplicitEnd.String())
			}

			if !bounds.Valid {
				return cli.Exit("proof did not verify", 1)
			}
			return nil
		},
	}
}
