// Package http exposes the site API over net/http.
//
// Routes mount under /api:
//   - Blogs: /blogs, /blogs/{id}, /blogs/slug/{slug}
//   - Products: /products, /products/{id}
//   - Service lines: /services, /services/{id}
//   - Team: /teams, /teams/{id}
//   - Leads: /leads, /leads/{id}/status, /leads/{id}
//   - Auth: /auth/login, /auth/logout
//
// Signed upload URLs resolve under /objects/{path}. Every response uses one
// envelope: statusCode plus data or message on success, errorCode and a
// sanitized errorMessage on failure. Mutating endpoints sit behind the
// session cookie gate when an auth service is wired.
package http
