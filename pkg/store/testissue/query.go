package testissue

const registerQuery = `INSERT IGNORE INTO job_registry (job_id) VALUES (?)`

const findKeyQuery = `SELECT issue_key FROM test_issue_mapping WHERE job_id = ? AND test_id_hash = ?`

const upsertQuery = `INSERT INTO test_issue_mapping (job_id, test_id_hash, test_id, issue_key) VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE issue_key = VALUES(issue_key)`

const findKeysQuery = `SELECT test_id_hash, issue_key FROM test_issue_mapping WHERE job_id = ? AND test_id_hash IN ?`
