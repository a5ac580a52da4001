package handlers

import "html/template"

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 40px auto; padding: 0 16px; }
label { display: block; margin-top: 16px; font-weight: bold; }
input[type=text], textarea { width: 100%; padding: 6px; margin-top: 4px; box-sizing: border-box; }
textarea { min-height: 80px; }
input[type=submit] { margin-top: 20px; padding: 8px 24px; }
.updated { background: #00d084; color: white; padding: 12px; margin-bottom: 16px; font-weight: bold; }
tt { color: #fcb900; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Messages}}<div class="updated"><p>{{.}}</p></div>
{{end}}<p>{{.Content}}</p>
<form method="post" action="/feedback">
	<input type="hidden" name="return_to" value="/feedback">

	<label for="name">Developer Name:</label>
	<input type="text" name="name" required>

	<label for="yesterdays_tasks">Yesterday's Tasks: <tt>mention tickets as WPDB-XXXX</tt></label>
	<textarea name="yesterdays_tasks" required></textarea>

	<label for="todays_tasks">Today's Tasks:</label>
	<textarea name="todays_tasks" required></textarea>

	<label for="blockers">Blockers:</label>
	<textarea name="blockers"></textarea>

	<input type="submit" name="submit_feedback" value="Submit">
</form>
</body>
</html>
`))

var adminTemplate = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Feedback Data</title>
<style>
body { font-family: sans-serif; margin: 40px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccd0d4; padding: 8px; text-align: left; vertical-align: top; }
th { background: #f6f7f7; }
td { white-space: pre-line; }
button.delete-feedback { cursor: pointer; }
</style>
</head>
<body>
<h2>Employee Feedback Data</h2>
<table>
	<thead>
		<tr>
			<th>Date Log</th>
			<th>Developer Name</th>
			<th>Yesterday's Tasks</th>
			<th>Today's Tasks</th>
			<th>Blockers</th>
			<th>Action</th>
		</tr>
	</thead>
	<tbody>
	{{range .Rows}}	<tr>
			<td>{{.DateLog}}</td>
			<td>{{.Name}}</td>
			<td>{{.Yesterday}}</td>
			<td>{{.Today}}</td>
			<td>{{.Blockers}}</td>
			<td><button class="delete-feedback" data-entry="{{.Key}}">Delete</button></td>
		</tr>
	{{else}}	<tr><td colspan="6">No data found.</td></tr>
	{{end}}</tbody>
</table>
<script>
document.addEventListener('DOMContentLoaded', function() {
	var deleteButtons = document.querySelectorAll('.delete-feedback');

	for (var i = 0; i < deleteButtons.length; i++) {
		deleteButtons[i].addEventListener('click', function(event) {
			var entryKey = event.target.getAttribute('data-entry');

			if (confirm('Are you sure you want to delete this feedback?')) {
				var xhr = new XMLHttpRequest();
				xhr.open('POST', '/admin/feedback/delete', true);
				xhr.setRequestHeader('Content-Type', 'application/x-www-form-urlencoded; charset=UTF-8');

				xhr.onload = function() {
					if (xhr.status === 200 && xhr.responseText === 'success') {
						// Reload the page to update the feedback list
						location.reload();
					} else {
						alert('Error deleting feedback.');
					}
				};

				xhr.send('entry_key=' + encodeURIComponent(entryKey));
			}
		});
	}
});
</script>
</body>
</html>
`))
