/*
Package status rewrites files in place and tracks what a run did to them.

	            +-------------+
	            |   Status    |
	            |  (Manager)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |                         |
	+-----+-----+             +-----+-----+
	|   Files   |             |  Outcomes |
	|  (atomic) |             | (summary) |
	+-----------+             +-----------+

🎯 Purpose:
- Reads files relative to a base directory
- Replaces them atomically, keeping permissions
- Records a FileStatus per path and counts them for the run summary

The manager is shared by every worker of an operation, so all of its
methods are safe for concurrent use.
*/
package status
