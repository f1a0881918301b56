package postgres

// SQL for the user-action log and the product catalog.
//
// Listing queries order by created_at DESC with seq ASC as the tie-break:
// for records stamped in the same instant, the earlier-inserted one sorts
// first. The grouping core relies on this being stable.
//
// Distinct-IP counts normalize NULL/empty ip_address to 'unknown' so the
// absent-address case is one ordinary distinct value.

const (
	querySaveAction = `
		INSERT INTO user_actions (
			id, action, product_id, quantity, total_price,
			ip_address, country, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq
	`

	queryListActions = `
		SELECT
			id, action, product_id, quantity, total_price,
			ip_address, country, created_at, seq
		FROM user_actions
		ORDER BY created_at DESC, seq ASC
	`

	queryListActionsPage = `
		SELECT
			id, action, product_id, quantity, total_price,
			ip_address, country, created_at, seq
		FROM user_actions
		ORDER BY created_at DESC, seq ASC
		OFFSET $1
		LIMIT $2
	`

	queryRecentActions = `
		SELECT
			id, action, product_id, quantity, total_price,
			ip_address, country, created_at, seq
		FROM user_actions
		ORDER BY created_at DESC, seq ASC
		LIMIT $1
	`

	queryCountActions = `
		SELECT COUNT(*) FROM user_actions
	`

	queryCountDistinctIPs = `
		SELECT COUNT(DISTINCT COALESCE(NULLIF(ip_address, ''), 'unknown'))
		FROM user_actions
		WHERE action = $1
	`

	queryCountDistinctIPsSince = `
		SELECT COUNT(DISTINCT COALESCE(NULLIF(ip_address, ''), 'unknown'))
		FROM user_actions
		WHERE action = $1
		  AND created_at >= $2
	`
)

const (
	queryCreateProduct = `
		INSERT INTO products (
			id, name, category, price, rate, flavour,
			images, video, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	queryGetProduct = `
		SELECT
			id, name, category, price, rate, flavour,
			images, video, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	queryListProducts = `
		SELECT
			id, name, category, price, rate, flavour,
			images, video, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
	`

	queryListProductsByCategory = `
		SELECT
			id, name, category, price, rate, flavour,
			images, video, created_at, updated_at
		FROM products
		WHERE category = $1
		ORDER BY created_at DESC
	`

	queryUpdateProduct = `
		UPDATE products
		SET name = $2, category = $3, price = $4, rate = $5,
		    flavour = $6, images = $7, video = $8, updated_at = $9
		WHERE id = $1
	`

	queryDeleteProduct = `
		DELETE FROM products WHERE id = $1
	`

	queryCountProductsByCategory = `
		SELECT category, COUNT(*)
		FROM products
		GROUP BY category
	`
)
