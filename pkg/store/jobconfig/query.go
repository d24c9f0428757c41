package jobconfig

const upsertQuery = `INSERT INTO job_config
	(job_id, project_key, issue_type, field_templates, auto_raise_issue,
	auto_resolve_issue, prevent_duplicate_issue, max_bugs_per_day)
VALUES
	(:job_id, :project_key, :issue_type, :field_templates, :auto_raise_issue,
	:auto_resolve_issue, :prevent_duplicate_issue, :max_bugs_per_day)
ON DUPLICATE KEY UPDATE
	project_key = VALUES(project_key),
	issue_type = VALUES(issue_type),
	field_templates = VALUES(field_templates),
	auto_raise_issue = VALUES(auto_raise_issue),
	auto_resolve_issue = VALUES(auto_resolve_issue),
	prevent_duplicate_issue = VALUES(prevent_duplicate_issue),
	max_bugs_per_day = VALUES(max_bugs_per_day)`

const findQuery = `SELECT
	job_id, project_key, issue_type, field_templates, auto_raise_issue,
	auto_resolve_issue, prevent_duplicate_issue, max_bugs_per_day, created_at, updated_at
FROM job_config
WHERE job_id = ?`
