/*
Package auction implements the English auction contract of the exchange.

An auction is opened by the asset owner for a single NEP-11 token. The owner
approves the auction contract in the registry first, then CreateAuction takes
the token into custody and sets the starting bid and the deadline. Bids are GAS
transfers to the contract with [asset contract, token ID] as transfer data.
Every bid must be at least the starting bid and strictly higher than the
current one.

Funds are never pushed to participants. An outbid bidder and the seller of a
finalized auction are credited in the contract's escrow ledger and take GAS
with WithdrawFunds. The contract always holds exactly the sum of pending
withdrawals plus the highest bids of open auctions.

After the deadline anyone can finalize the auction: the token goes to the
highest bidder or back to the seller if there were no bids. The seller can
cancel an auction without bids at any time.

# Contract notifications

AuctionCreated notification. This notification is produced when an auction
is opened. Deadline is a block timestamp in milliseconds.

	AuctionCreated:
	  - name: tokenId
	    type: ByteArray
	  - name: assetContract
	    type: Hash160
	  - name: startingBid
	    type: Integer
	  - name: deadline
	    type: Integer

BidPlaced notification. This notification is produced on every accepted bid.

	BidPlaced:
	  - name: tokenId
	    type: ByteArray
	  - name: assetContract
	    type: Hash160
	  - name: bidder
	    type: Hash160
	  - name: amount
	    type: Integer

AuctionFinalized notification. Winner is the seller and amount is zero if
there were no bids.

	AuctionFinalized:
	  - name: tokenId
	    type: ByteArray
	  - name: assetContract
	    type: Hash160
	  - name: winner
	    type: Hash160
	  - name: amount
	    type: Integer

AuctionCancelled notification.

	AuctionCancelled:
	  - name: tokenId
	    type: ByteArray
	  - name: assetContract
	    type: Hash160

FundsWithdrawn notification. This notification is produced when the account
takes its pending GAS.

	FundsWithdrawn:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package auction

/*
Contract storage model.

	# Summary
	Key-value storage format:
	 - 'a' + sha256(asset contract + token ID) -> std.Serialize(Auction)
	   the last auction of the asset
	 - 'c' + sha256(asset contract + token ID) -> 1
	   custody marker, present only during CreateAuction
	 - 'w' + account -> int
	   pending withdrawals
	 - 't' -> int
	   sum of pending withdrawals
*/
