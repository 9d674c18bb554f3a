// Package scrapestorm provides an HTTP client for the ScrapeStorm task API.
//
// # Overview
//
// ScrapeStorm exposes a small GET-only REST interface for managing crawler
// tasks:
//
//	http://{host}:{port}/rest/v1/task/[{task_id}/]{action}
//
// where action is one of copy, data/clear, delete, list, start, status or
// stop. Every reply is a JSON envelope:
//
//	{"code": 0, "list": [...], "msg": "ok", "status": null}
//
// The client builds URLs, issues the requests and decodes the envelope into
// APIResponse. Code, Msg and Status are passed through uninterpreted; the
// server owns their meaning.
//
// # Client Usage
//
//	client, err := scrapestorm.NewClient(scrapestorm.DefaultEndpoint())
//	if err != nil {
//		log.Fatalf("create client: %v", err)
//	}
//
//	task, err := client.GetTaskByName(ctx, "INSTAGRAM_TASK_1")
//	if err != nil {
//		log.Fatalf("lookup: %v", err)
//	}
//	resp, err := client.Bind(task).Start(ctx)
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Are bounded by the client timeout (5 seconds unless WithTimeout is given)
//   - Set Accept: application/json and User-Agent: stormctl/0.1
//   - Are never retried
//
// Task-scoped calls reject ids <= 0 with ErrInvalidTaskID. BuildURL itself
// drops a zero id, so such a call would otherwise hit the id-less endpoint.
//
// # Error Handling
//
//   - *TransportError: no response (refused, DNS, timeout, cancelled)
//   - *ProtocolError: non-2xx status or an undecodable body
//   - ErrNotFound: GetTask / GetTaskByName found no match
//   - ErrInvalidTaskID: non-positive id on a task-scoped call
//
// # Thread Safety
//
// A Client holds only immutable configuration and is safe for concurrent use.
package scrapestorm
