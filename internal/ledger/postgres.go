package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore persists wallets and the transaction log in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const walletColumns = `id, owner_id, parent_pin_hash, created_at`

// GetOrCreateWallet upserts the owner's wallet. The unique constraint on
// owner_id makes concurrent first accesses converge on a single row.
func (s *PostgresStore) GetOrCreateWallet(ctx context.Context, ownerID string) (Wallet, error) {
	if _, err := s.db.Exec(ctx, `INSERT INTO wallet (id, owner_id, created_at) VALUES ($1, $2, $3)
        ON CONFLICT (owner_id) DO NOTHING`, uuid.New(), ownerID, time.Now().UTC()); err != nil {
		return Wallet{}, fmt.Errorf("upsert wallet: %w", err)
	}

	row := s.db.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallet WHERE owner_id = $1`, ownerID)
	return scanWallet(row)
}

// GetWallet fetches a wallet by identifier.
func (s *PostgresStore) GetWallet(ctx context.Context, walletID string) (Wallet, error) {
	row := s.db.QueryRow(ctx, `SELECT `+walletColumns+` FROM wallet WHERE id = $1`, walletID)
	w, err := scanWallet(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, ErrWalletNotFound
	}
	return w, err
}

// Append inserts a transaction row. The BIGSERIAL id doubles as the replay
// tiebreak, assigned by the database at insert time.
func (s *PostgresStore) Append(ctx context.Context, walletID string, entry Entry) (Transaction, error) {
	row := s.db.QueryRow(ctx, `INSERT INTO wallet_transaction
        (wallet_id, amount, kind, source, description, gift_card_id, created_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
        RETURNING id, created_at`,
		walletID, entry.Amount.String(), string(entry.Kind), string(entry.Source),
		entry.Description, entry.GiftCardID, time.Now().UTC())

	tx := Transaction{
		WalletID:    walletID,
		Amount:      entry.Amount,
		Kind:        entry.Kind,
		Source:      entry.Source,
		Description: entry.Description,
		GiftCardID:  entry.GiftCardID,
	}
	if err := row.Scan(&tx.ID, &tx.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return Transaction{}, ErrWalletNotFound
		}
		return Transaction{}, fmt.Errorf("append transaction: %w", err)
	}
	return tx, nil
}

// AppendPurchase checks sufficiency and inserts the debit inside one database
// transaction, with the wallet row locked so concurrent purchases serialize
// instead of both passing the check.
func (s *PostgresStore) AppendPurchase(ctx context.Context, walletID string, amount decimal.Decimal, giftCardID, description string) (Transaction, error) {
	dbTx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Transaction{}, fmt.Errorf("begin purchase tx: %w", err)
	}
	defer dbTx.Rollback(ctx) // nolint:errcheck

	var lockedID uuid.UUID
	if err := dbTx.QueryRow(ctx, `SELECT id FROM wallet WHERE id = $1 FOR UPDATE`, walletID).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrWalletNotFound
		}
		return Transaction{}, fmt.Errorf("lock wallet: %w", err)
	}

	const balanceQuery = `
        SELECT COALESCE(SUM(CASE WHEN source = 'store' THEN -amount ELSE amount END), 0)::text
        FROM wallet_transaction WHERE wallet_id = $1`
	var totalStr string
	if err := dbTx.QueryRow(ctx, balanceQuery, walletID).Scan(&totalStr); err != nil {
		return Transaction{}, fmt.Errorf("project balance: %w", err)
	}
	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse balance %q: %w", totalStr, err)
	}

	if total.LessThan(amount) {
		return Transaction{}, ErrInsufficientFunds
	}

	tx := Transaction{
		WalletID:    walletID,
		Amount:      amount,
		Kind:        KindDebit,
		Source:      SourceStore,
		Description: description,
		GiftCardID:  giftCardID,
	}
	row := dbTx.QueryRow(ctx, `INSERT INTO wallet_transaction
        (wallet_id, amount, kind, source, description, gift_card_id, created_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
        RETURNING id, created_at`,
		walletID, amount.String(), string(KindDebit), string(SourceStore),
		description, giftCardID, time.Now().UTC())
	if err := row.Scan(&tx.ID, &tx.CreatedAt); err != nil {
		return Transaction{}, fmt.Errorf("append purchase: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return Transaction{}, fmt.Errorf("commit purchase: %w", err)
	}
	return tx, nil
}

// ListTransactions returns the wallet's log in replay order.
func (s *PostgresStore) ListTransactions(ctx context.Context, walletID string) ([]Transaction, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `SELECT id, wallet_id, amount::text, kind, source, description,
        COALESCE(gift_card_id, ''), created_at
        FROM wallet_transaction WHERE wallet_id = $1
        ORDER BY created_at ASC, id ASC`, walletID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var tx Transaction
		var amountStr, kind, source string
		if err := rows.Scan(&tx.ID, &tx.WalletID, &amountStr, &kind, &source,
			&tx.Description, &tx.GiftCardID, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tx.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amountStr, err)
		}
		tx.Kind = Kind(kind)
		tx.Source = Source(source)
		out = append(out, tx)
	}
	return out, rows.Err()
}

// LastTransactionID returns the newest transaction id, or zero for an empty log.
func (s *PostgresStore) LastTransactionID(ctx context.Context, walletID string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM wallet_transaction WHERE wallet_id = $1`, walletID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("last transaction id: %w", err)
	}
	return id, nil
}

// SetPIN stores the wallet's parent PIN hash.
func (s *PostgresStore) SetPIN(ctx context.Context, walletID string, pinHash []byte) error {
	tag, err := s.db.Exec(ctx, `UPDATE wallet SET parent_pin_hash = $2 WHERE id = $1`, walletID, pinHash)
	if err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var w Wallet
	var id, ownerID uuid.UUID
	var pinHash []byte
	var createdAt time.Time
	if err := row.Scan(&id, &ownerID, &pinHash, &createdAt); err != nil {
		return Wallet{}, err
	}
	w.ID = id.String()
	w.OwnerID = ownerID.String()
	w.PINHash = pinHash
	w.CreatedAt = createdAt.UTC()
	return w, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == "23503"
}
