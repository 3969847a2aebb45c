/*
Package contracts provides access to compiled exchange contracts.

Each contract is expected in its own directory of the file system as
contract.nef and manifest.json, the layout `neo-go contract compile` produces
when run for every contract directory of this repository.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

// Manifest names of the exchange contracts.
const (
	NameNFT         = "NFT Exchange Registry"
	NameAuction     = "NFT Exchange Auction"
	NameMarketplace = "NFT Exchange Marketplace"
)

const (
	nftDir         = "nft"
	auctionDir     = "auction"
	marketplaceDir = "marketplace"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
)

// Contract groups information about Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Exchange is a set of contracts making up the exchange. The registry is
// deployed first, the auction and the marketplace don't depend on each other.
type Exchange struct {
	NFT         Contract
	Auction     Contract
	Marketplace Contract
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")
	errUnexpectedName  = errors.New("unexpected contract name")
)

// Read reads exchange contracts from the given file system.
func Read(fsys fs.FS) (Exchange, error) {
	var res Exchange

	for _, c := range []struct {
		dir  string
		name string
		dst  *Contract
	}{
		{nftDir, NameNFT, &res.NFT},
		{auctionDir, NameAuction, &res.Auction},
		{marketplaceDir, NameMarketplace, &res.Marketplace},
	} {
		ctr, err := readContractFromDir(fsys, c.dir)
		if err != nil {
			return Exchange{}, fmt.Errorf("read contract %s: %w", c.dir, err)
		}
		if ctr.Manifest.Name != c.name {
			return Exchange{}, fmt.Errorf("read contract %s: %w %q", c.dir, errUnexpectedName, ctr.Manifest.Name)
		}
		*c.dst = ctr
	}

	return res, nil
}

// ReadDir is the same as Read for the directory of the local file system.
func ReadDir(path string) (Exchange, error) {
	return Read(os.DirFS(path))
}

func readContractFromDir(fsys fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths always use "/".
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %v", errInvalidManifest, err)
	}

	return c, nil
}
