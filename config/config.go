//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

// Package config implements the network configuration of the MPC
// network clients. The configuration is read from a dotenv file and
// the environment.
package config

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/markkurossi/mpcnet/keys"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyNodeEndpoints    = "MPCNET_NODE_ENDPOINTS"
	KeyChainEndpoint    = "MPCNET_CHAIN_ENDPOINT"
	KeyChainPublicKey   = "MPCNET_CHAIN_PUBLIC_KEY"
	KeyWalletPrivateKey = "MPCNET_WALLET_PRIVATE_KEY_"
)

// ErrNotConfigured is returned when a configuration value is missing.
var ErrNotConfigured = errors.New("config: not configured")

// Network defines the endpoints of an MPC network.
type Network struct {
	Name           string
	Nodes          []string
	Chain          string
	ChainPublicKey keys.ChainPublicKey

	// Dialer overrides the network dialer. It is set for in-memory
	// networks.
	Dialer func(ctx context.Context, addr string) (net.Conn, error)

	v *viper.Viper
}

// Path returns the configuration file path of the named network.
func Path(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "config")
	}
	return filepath.Join(home, ".config", "mpcnet",
		fmt.Sprintf("mpcnet-%s.env", name)), nil
}

// NetworkFromConfig reads the named network configuration from its
// default configuration file.
func NetworkFromConfig(name string) (*Network, error) {
	path, err := Path(name)
	if err != nil {
		return nil, err
	}
	return LoadNetwork(name, path)
}

// LoadNetwork loads the network configuration from the env file. The
// environment variables override the file values. A missing file is
// not an error if the environment defines the network.
func LoadNetwork(name, path string) (*Network, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "config")
	}

	network := &Network{
		Name:  name,
		Chain: v.GetString(KeyChainEndpoint),
		v:     v,
	}
	for _, ep := range strings.Split(v.GetString(KeyNodeEndpoints), ",") {
		ep = strings.TrimSpace(ep)
		if len(ep) > 0 {
			network.Nodes = append(network.Nodes, ep)
		}
	}
	if len(network.Nodes) == 0 {
		return nil, errors.Wrapf(ErrNotConfigured, "%s: %s",
			name, KeyNodeEndpoints)
	}
	if len(network.Chain) == 0 {
		return nil, errors.Wrapf(ErrNotConfigured, "%s: %s",
			name, KeyChainEndpoint)
	}
	pub := v.GetString(KeyChainPublicKey)
	if len(pub) > 0 {
		key, err := keys.ChainPublicKeyFromHex(pub)
		if err != nil {
			return nil, errors.Wrapf(err, "config: %s", KeyChainPublicKey)
		}
		network.ChainPublicKey = key
	}
	return network, nil
}

// WalletKey returns the wallet private key n.
func (n *Network) WalletKey(idx int) (*keys.PrivateKey, error) {
	name := fmt.Sprintf("%s%d", KeyWalletPrivateKey, idx)
	var value string
	if n.v != nil {
		value = n.v.GetString(name)
	} else {
		value = os.Getenv(name)
	}
	if len(value) == 0 {
		return nil, errors.Wrapf(ErrNotConfigured, "%s: %s", n.Name, name)
	}
	key, err := keys.PrivateKeyFromHex(value)
	if err != nil {
		return nil, errors.Wrapf(err, "config: %s", name)
	}
	return key, nil
}

// WriteEnvFile writes the network configuration and the wallet keys
// into the env file.
func WriteEnvFile(path string, network *Network,
	wallets []*keys.PrivateKey) error {

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "config")
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errors.Wrap(err, "config")
	}
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "# mpcnet network %s\n", network.Name)
	fmt.Fprintf(w, "%s=%s\n", KeyNodeEndpoints, strings.Join(network.Nodes, ","))
	fmt.Fprintf(w, "%s=%s\n", KeyChainEndpoint, network.Chain)
	if len(network.ChainPublicKey) > 0 {
		fmt.Fprintf(w, "%s=%s\n", KeyChainPublicKey,
			network.ChainPublicKey.Hex())
	}
	for idx, key := range wallets {
		fmt.Fprintf(w, "%s%d=%s\n", KeyWalletPrivateKey, idx, key.Hex())
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrap(err, "config")
	}
	return errors.Wrap(f.Close(), "config")
}
