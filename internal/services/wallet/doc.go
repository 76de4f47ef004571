/*
Package wallet manages the per-user balance buckets.

Every change to a wallet goes through Apply, which turns a list of
mutations into one UPDATE statement against a row the caller has locked
inside its transaction:

	w, err := tx.Wallets().LockByUserID(ctx, userID)
	if err != nil {
		return err
	}
	err = wallets.Apply(ctx, tx, w.ID,
		wallet.Increment(models.BucketBalance, amount),
		wallet.Set(models.BucketBalanceDepositRollover, amount),
	)

Increments are rendered as "col + ?" so they never read-modify-write in Go.
Reads go through GetWallet, which is served from Redis when a cache is
configured and invalidated after every committed settlement.
*/
package wallet
