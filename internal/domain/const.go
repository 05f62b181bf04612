package domain

const (
	// LAMPORTS_PER_SOL is the number of lamports in one SOL
	LAMPORTS_PER_SOL uint64 = 1_000_000_000

	// SYSTEM_PROGRAM_ID is the Solana system program that carries native transfers
	SYSTEM_PROGRAM_ID = "11111111111111111111111111111111"

	// MAX_IDENTITY_LENGTH bounds the wallet identity accepted from clients
	MAX_IDENTITY_LENGTH = 128

	// Leaderboard sizes
	CURRENT_LEADERBOARD_LIMIT = 50
	FINAL_LEADERBOARD_LIMIT   = 100
)
