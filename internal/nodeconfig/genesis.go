package nodeconfig

import (
	"encoding/json"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/holiman/uint256"

	"github.com/vsavchyn-dev/near-sandbox/internal/errors"
)

// Sentinel values for accounts with no deployed code.
const (
	noCodeHash          = "11111111111111111111111111111111"
	defaultStorageUsage = 182
)

// ApplyGenesis injects the default genesis account and cfg.AdditionalAccounts
// into <homeDir>/genesis.json, raising total_supply by the sum of injected
// balances, then deep-merges cfg.AdditionalGenesis and persists. One key file
// per injected account is written next to the genesis file.
func ApplyGenesis(homeDir string, cfg Config) error {
	path := filepath.Join(homeDir, "genesis.json")

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.ConfigError("failed to read genesis.json", err)
	}

	var genesis map[string]any
	if err := json.Unmarshal(data, &genesis); err != nil {
		return errors.JSONError("failed to parse genesis.json", err)
	}

	// total_supply and records are written by the node's init step. Their
	// absence means the home directory was not initialized by a compatible
	// binary.
	rawSupply, ok := genesis["total_supply"].(string)
	if !ok {
		return errors.InvariantError("genesis.json has no total_supply: home directory was not produced by a compatible init")
	}
	totalSupply, err := uint256.FromDecimal(rawSupply)
	if err != nil {
		return errors.JSONError("genesis.json total_supply is not a decimal string", err)
	}

	records, ok := genesis["records"].([]any)
	if !ok {
		return errors.InvariantError("genesis.json has no records array: home directory was not produced by a compatible init")
	}

	accounts := make([]GenesisAccount, 0, len(cfg.AdditionalAccounts)+1)
	accounts = append(accounts, DefaultGenesisAccount())
	accounts = append(accounts, cfg.AdditionalAccounts...)

	for _, account := range accounts {
		totalSupply.Add(totalSupply, balanceOf(account))
		records = append(records, accountRecord(account), accessKeyRecord(account))
	}

	genesis["total_supply"] = totalSupply.Dec()
	genesis["records"] = records

	if cfg.AdditionalGenesis != nil {
		genesis = Merge(genesis, cfg.AdditionalGenesis)
	}

	out, err := json.Marshal(genesis)
	if err != nil {
		return errors.JSONError("failed to serialize genesis.json", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.ConfigError("failed to write genesis.json", err)
	}

	return writeAccountKeys(homeDir, accounts)
}

func balanceOf(account GenesisAccount) *uint256.Int {
	if account.Balance == nil {
		return uint256.NewInt(0)
	}
	return account.Balance
}

func accountRecord(account GenesisAccount) map[string]any {
	return map[string]any{
		"Account": map[string]any{
			"account_id": account.AccountID,
			"account": map[string]any{
				"amount":        balanceOf(account).Dec(),
				"locked":        "0",
				"code_hash":     noCodeHash,
				"storage_usage": defaultStorageUsage,
			},
		},
	}
}

func accessKeyRecord(account GenesisAccount) map[string]any {
	return map[string]any{
		"AccessKey": map[string]any{
			"account_id": account.AccountID,
			"public_key": account.PublicKey,
			"access_key": map[string]any{
				"nonce":      0,
				"permission": "FullAccess",
			},
		},
	}
}

// writeAccountKeys persists {account_id, public_key, private_key} for each
// injected account as <account_id>.json inside the home directory. Account
// ids come from callers, so the path is confined to the home directory.
func writeAccountKeys(homeDir string, accounts []GenesisAccount) error {
	for _, account := range accounts {
		path, err := securejoin.SecureJoin(homeDir, account.AccountID+".json")
		if err != nil {
			return errors.ConfigError("invalid account id "+account.AccountID, err)
		}

		payload, err := json.Marshal(map[string]string{
			"account_id":  account.AccountID,
			"public_key":  account.PublicKey,
			"private_key": account.PrivateKey,
		})
		if err != nil {
			return errors.JSONError("failed to serialize key file for "+account.AccountID, err)
		}

		file, err := os.Create(path)
		if err != nil {
			return errors.ConfigError("failed to create key file for "+account.AccountID, err)
		}
		if _, err := file.Write(payload); err != nil {
			file.Close()
			return errors.ConfigError("failed to write key file for "+account.AccountID, err)
		}
		if err := file.Sync(); err != nil {
			file.Close()
			return errors.ConfigError("failed to flush key file for "+account.AccountID, err)
		}
		if err := file.Close(); err != nil {
			return errors.ConfigError("failed to close key file for "+account.AccountID, err)
		}
	}
	return nil
}
