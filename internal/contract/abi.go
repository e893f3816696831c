// Package contract holds the ABI of the castle and vault contracts the
// conveyor talks to, and the decoded shapes of the vault events it watches.
package contract

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const castleJSON = `[
{"type":"function","name":"submitIndex","stateMutability":"nonpayable","inputs":[
 {"name":"index_id","type":"uint128"},
 {"name":"name","type":"string"},
 {"name":"symbol","type":"string"},
 {"name":"description","type":"string"},
 {"name":"methodology","type":"string"},
 {"name":"initial_members","type":"bytes"},
 {"name":"keepers","type":"address[]"},
 {"name":"custody","type":"address"},
 {"name":"collateral","type":"address"},
 {"name":"max_order_size","type":"uint128"}],"outputs":[]},
{"type":"function","name":"submitVote","stateMutability":"nonpayable","inputs":[
 {"name":"index_id","type":"uint128"},
 {"name":"vote","type":"bytes"}],"outputs":[]},
{"type":"function","name":"submitAssetWeights","stateMutability":"nonpayable","inputs":[
 {"name":"index_id","type":"uint128"},
 {"name":"assets","type":"bytes"},
 {"name":"weights","type":"bytes"}],"outputs":[]},
{"type":"function","name":"updateIndexQuote","stateMutability":"nonpayable","inputs":[
 {"name":"vendor_id","type":"uint128"},
 {"name":"index_id","type":"uint128"}],"outputs":[]},
{"type":"function","name":"submitAssets","stateMutability":"nonpayable","inputs":[
 {"name":"vendor_id","type":"uint128"},
 {"name":"assets","type":"bytes"}],"outputs":[]},
{"type":"function","name":"submitMargin","stateMutability":"nonpayable","inputs":[
 {"name":"vendor_id","type":"uint128"},
 {"name":"assets","type":"bytes"},
 {"name":"margins","type":"bytes"}],"outputs":[]},
{"type":"function","name":"submitMarketData","stateMutability":"nonpayable","inputs":[
 {"name":"vendor_id","type":"uint128"},
 {"name":"assets","type":"bytes"},
 {"name":"liquidity","type":"bytes"},
 {"name":"prices","type":"bytes"},
 {"name":"slopes","type":"bytes"}],"outputs":[]},
{"type":"function","name":"submitSupply","stateMutability":"nonpayable","inputs":[
 {"name":"vendor_id","type":"uint128"},
 {"name":"assets","type":"bytes"},
 {"name":"short","type":"bytes"},
 {"name":"long","type":"bytes"}],"outputs":[]},
{"type":"function","name":"getVendorDemand","stateMutability":"view","inputs":[
 {"name":"vendor_id","type":"uint128"}],"outputs":[
 {"name":"demand","type":"bytes[]"}]},
{"type":"event","name":"IndexDeployed","anonymous":false,"inputs":[
 {"name":"index_id","type":"uint128","indexed":true},
 {"name":"vault","type":"address","indexed":false}]}
]`

const vaultJSON = `[
{"type":"function","name":"processPendingBuyOrder","stateMutability":"nonpayable","inputs":[
 {"name":"trader","type":"address"}],"outputs":[]},
{"type":"function","name":"processPendingSellOrder","stateMutability":"nonpayable","inputs":[
 {"name":"trader","type":"address"}],"outputs":[]},
{"type":"function","name":"getTraderOrder","stateMutability":"view","inputs":[
 {"name":"trader","type":"address"}],"outputs":[
 {"name":"order","type":"bytes"}]},
{"type":"event","name":"BuyOrder","anonymous":false,"inputs":[
 {"name":"keeper","type":"address","indexed":true},
 {"name":"trader","type":"address","indexed":true},
 {"name":"index_id","type":"uint128","indexed":false},
 {"name":"vendor_id","type":"uint128","indexed":false},
 {"name":"collateral_amount","type":"uint128","indexed":false}]},
{"type":"event","name":"SellOrder","anonymous":false,"inputs":[
 {"name":"keeper","type":"address","indexed":true},
 {"name":"trader","type":"address","indexed":true},
 {"name":"index_id","type":"uint128","indexed":false},
 {"name":"vendor_id","type":"uint128","indexed":false},
 {"name":"itp_amount","type":"uint128","indexed":false}]},
{"type":"event","name":"Acquisition","anonymous":false,"inputs":[
 {"name":"controller","type":"address","indexed":true},
 {"name":"index_id","type":"uint128","indexed":false},
 {"name":"vendor_id","type":"uint128","indexed":false},
 {"name":"remain","type":"uint128","indexed":false},
 {"name":"spent","type":"uint128","indexed":false},
 {"name":"itp_minted","type":"uint128","indexed":false}]},
{"type":"event","name":"Disposal","anonymous":false,"inputs":[
 {"name":"controller","type":"address","indexed":true},
 {"name":"index_id","type":"uint128","indexed":false},
 {"name":"vendor_id","type":"uint128","indexed":false},
 {"name":"itp_remain","type":"uint128","indexed":false},
 {"name":"itp_burned","type":"uint128","indexed":false},
 {"name":"gains","type":"uint128","indexed":false}]},
{"type":"event","name":"AcquisitionClaim","anonymous":false,"inputs":[
 {"name":"keeper","type":"address","indexed":true},
 {"name":"trader","type":"address","indexed":true},
 {"name":"index_id","type":"uint128","indexed":false},
 {"name":"vendor_id","type":"uint128","indexed":false},
 {"name":"remain","type":"uint128","indexed":false},
 {"name":"spent","type":"uint128","indexed":false}]},
{"type":"event","name":"DisposalClaim","anonymous":false,"inputs":[
 {"name":"keeper","type":"address","indexed":true},
 {"name":"trader","type":"address","indexed":true},
 {"name":"index_id","type":"uint128","indexed":false},
 {"name":"vendor_id","type":"uint128","indexed":false},
 {"name":"itp_remain","type":"uint128","indexed":false},
 {"name":"itp_burned","type":"uint128","indexed":false}]}
]`

var (
	// Castle is the registry facade: index, vote, weight, quote and vendor
	// market submissions.
	Castle = mustParse(castleJSON)
	// Vault is the per-index contract holding pending orders.
	Vault = mustParse(vaultJSON)
)

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("contract: parse abi: " + err.Error())
	}
	return parsed
}
