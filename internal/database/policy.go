package database

import (
	"database/sql"
	"fmt"

	"github.com/lirkwood/netdox-sub001/internal/config"
)

// ImportFromConfig replaces the stored policy with the one in cfg. The
// whole import runs in a single transaction so a failed import leaves the
// previous policy intact.
func (db *DB) ImportFromConfig(cfg *config.Config) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := importExclusions(tx, cfg.Network.Exclusions); err != nil {
		return err
	}
	if err := importRoles(tx, cfg.Network.Roles); err != nil {
		return err
	}
	if err := importLocations(tx, cfg.Locations); err != nil {
		return err
	}
	if err := importNAT(tx, cfg.NAT); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit policy import: %w", err)
	}
	return nil
}

func importExclusions(tx *sql.Tx, exclusions []string) error {
	if _, err := tx.Exec("DELETE FROM exclusions"); err != nil {
		return fmt.Errorf("failed to clear exclusions: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO exclusions (domain) VALUES (?)")
	if err != nil {
		return fmt.Errorf("failed to prepare exclusion insert: %w", err)
	}
	defer stmt.Close()

	for _, domain := range exclusions {
		if _, err := stmt.Exec(domain); err != nil {
			return fmt.Errorf("failed to insert exclusion %s: %w", domain, err)
		}
	}
	return nil
}

func importRoles(tx *sql.Tx, roles map[string]config.Role) error {
	for _, table := range []string{"role_attrs", "role_domains", "roles"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	roleStmt, err := tx.Prepare("INSERT INTO roles (name) VALUES (?)")
	if err != nil {
		return fmt.Errorf("failed to prepare role insert: %w", err)
	}
	defer roleStmt.Close()

	domainStmt, err := tx.Prepare("INSERT INTO role_domains (role, domain) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare role domain insert: %w", err)
	}
	defer domainStmt.Close()

	attrStmt, err := tx.Prepare("INSERT INTO role_attrs (role, key, value) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare role attr insert: %w", err)
	}
	defer attrStmt.Close()

	for name, role := range roles {
		if _, err := roleStmt.Exec(name); err != nil {
			return fmt.Errorf("failed to insert role %s: %w", name, err)
		}
		for _, domain := range role.Domains {
			if _, err := domainStmt.Exec(name, domain); err != nil {
				return fmt.Errorf("failed to insert domain %s for role %s: %w", domain, name, err)
			}
		}
		for key, value := range role.Attrs {
			if _, err := attrStmt.Exec(name, key, value); err != nil {
				return fmt.Errorf("failed to insert attr %s for role %s: %w", key, name, err)
			}
		}
	}
	return nil
}

func importLocations(tx *sql.Tx, locations map[string][]string) error {
	if _, err := tx.Exec("DELETE FROM locations"); err != nil {
		return fmt.Errorf("failed to clear locations: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO locations (subnet, location) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare location insert: %w", err)
	}
	defer stmt.Close()

	for location, subnets := range locations {
		for _, subnet := range subnets {
			if _, err := stmt.Exec(subnet, location); err != nil {
				return fmt.Errorf("failed to insert location subnet %s: %w", subnet, err)
			}
		}
	}
	return nil
}

func importNAT(tx *sql.Tx, pairs map[string]string) error {
	if _, err := tx.Exec("DELETE FROM nat_pairs"); err != nil {
		return fmt.Errorf("failed to clear NAT pairs: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO nat_pairs (addr, alias) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare NAT insert: %w", err)
	}
	defer stmt.Close()

	for addr, alias := range pairs {
		if _, err := stmt.Exec(addr, alias); err != nil {
			return fmt.Errorf("failed to insert NAT pair %s -> %s: %w", addr, alias, err)
		}
	}
	return nil
}

// ExportPolicy reads the stored exclusions and role table back out.
func (db *DB) ExportPolicy() (config.NetworkPolicy, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	policy := config.NetworkPolicy{Roles: make(map[string]config.Role)}

	rows, err := db.conn.Query("SELECT domain FROM exclusions ORDER BY domain")
	if err != nil {
		return policy, fmt.Errorf("failed to read exclusions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var domain string
		if err := rows.Scan(&domain); err != nil {
			return policy, fmt.Errorf("failed to scan exclusion: %w", err)
		}
		policy.Exclusions = append(policy.Exclusions, domain)
	}
	if err := rows.Err(); err != nil {
		return policy, fmt.Errorf("failed to read exclusions: %w", err)
	}

	roleRows, err := db.conn.Query("SELECT name FROM roles")
	if err != nil {
		return policy, fmt.Errorf("failed to read roles: %w", err)
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var name string
		if err := roleRows.Scan(&name); err != nil {
			return policy, fmt.Errorf("failed to scan role: %w", err)
		}
		policy.Roles[name] = config.Role{Attrs: make(map[string]string)}
	}
	if err := roleRows.Err(); err != nil {
		return policy, fmt.Errorf("failed to read roles: %w", err)
	}

	domainRows, err := db.conn.Query("SELECT role, domain FROM role_domains ORDER BY domain")
	if err != nil {
		return policy, fmt.Errorf("failed to read role domains: %w", err)
	}
	defer domainRows.Close()
	for domainRows.Next() {
		var role, domain string
		if err := domainRows.Scan(&role, &domain); err != nil {
			return policy, fmt.Errorf("failed to scan role domain: %w", err)
		}
		rc := policy.Roles[role]
		rc.Domains = append(rc.Domains, domain)
		policy.Roles[role] = rc
	}
	if err := domainRows.Err(); err != nil {
		return policy, fmt.Errorf("failed to read role domains: %w", err)
	}

	attrRows, err := db.conn.Query("SELECT role, key, value FROM role_attrs")
	if err != nil {
		return policy, fmt.Errorf("failed to read role attrs: %w", err)
	}
	defer attrRows.Close()
	for attrRows.Next() {
		var role, key, value string
		if err := attrRows.Scan(&role, &key, &value); err != nil {
			return policy, fmt.Errorf("failed to scan role attr: %w", err)
		}
		if rc, ok := policy.Roles[role]; ok {
			rc.Attrs[key] = value
		}
	}
	if err := attrRows.Err(); err != nil {
		return policy, fmt.Errorf("failed to read role attrs: %w", err)
	}

	return policy, nil
}

// ExportLocations reads the stored location -> subnets table back out.
func (db *DB) ExportLocations() (map[string][]string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query("SELECT subnet, location FROM locations ORDER BY subnet")
	if err != nil {
		return nil, fmt.Errorf("failed to read locations: %w", err)
	}
	defer rows.Close()

	locations := make(map[string][]string)
	for rows.Next() {
		var subnet, location string
		if err := rows.Scan(&subnet, &location); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations[location] = append(locations[location], subnet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read locations: %w", err)
	}
	return locations, nil
}

// ExportNAT reads the stored NAT pairs back out.
func (db *DB) ExportNAT() (map[string]string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query("SELECT addr, alias FROM nat_pairs")
	if err != nil {
		return nil, fmt.Errorf("failed to read NAT pairs: %w", err)
	}
	defer rows.Close()

	pairs := make(map[string]string)
	for rows.Next() {
		var addr, alias string
		if err := rows.Scan(&addr, &alias); err != nil {
			return nil, fmt.Errorf("failed to scan NAT pair: %w", err)
		}
		pairs[addr] = alias
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read NAT pairs: %w", err)
	}
	return pairs, nil
}
