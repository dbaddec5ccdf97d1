package member

const (
	SelectMemberByEmail = `
		SELECT uuid, email, password_hash, name, role, created_at
		FROM members
		WHERE email = $1
	`
	SelectMemberByID = `
		SELECT uuid, email, password_hash, name, role, created_at
		FROM members
		WHERE uuid = $1
	`
	InsertMember = `
		INSERT INTO members (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING uuid, email, password_hash, name, role, created_at
	`
)
