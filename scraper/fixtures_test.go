package scraper

// libraryPage mimics a library category page: a table whose first row is
// the column header.
const libraryPage = `
<html>
	<body>
		<form>
			<table class="category">
				<thead>
					<tr>
						<th class="list-title">Title</th>
						<th class="list-date">Date</th>
						<th class="list-author">Author</th>
						<th class="list-hits">Hits</th>
					</tr>
				</thead>
				<tbody>
					<tr>
						<td class="list-title"><a href="/index.php?option=com_content&amp;view=article&amp;id=101">  Prison   numbers rise </a></td>
						<td class="list-date"> 01 May 2014 </td>
						<td class="list-author">Written by Jane Doe</td>
						<td class="list-hits">Hits: 42</td>
					</tr>
					<tr>
						<td class="list-title"><a href="/index.php?option=com_content&amp;view=article&amp;id=102">Violence and the state</a></td>
						<td class="list-date">12 June 2014</td>
						<td class="list-author">Written by John Smith</td>
						<td class="list-hits">17</td>
					</tr>
				</tbody>
			</table>
		</form>
	</body>
</html>
`

// weblinkPage mimics a press cuttings category page: an unordered list of
// links to external articles.
const weblinkPage = `
<html>
	<body>
		<div class="weblink-category">
			<ul>
				<li>
					<span class="list-title"><a href="http://news.example.com/violence-report">Report on violence in schools</a></span>
					<span class="list-hits">Hits: 7</span>
				</li>
				<li>
					<span class="list-title"><a href="http://news.example.com/budget">Budget cuts hit courts</a></span>
				</li>
			</ul>
		</div>
		<ul>
			<li><a href="/outside">Outside the container</a></li>
		</ul>
	</body>
</html>
`

// articlePage mimics an article page with the rating widget paragraph at
// the top.
const articlePage = `
<html>
	<body>
		<div class="item-page">
			<p>User Rating: 5 / 5</p>
			<p><strong>A bold heading</strong></p>
			<p>Normal paragraph with <strong>some</strong> emphasis.</p>
			<p> </p>
			<p>x</p>
			<p><img src="/images/photo.jpg" alt=""></p>
			<p>Caption <img src="http://cdn.example.com/a.png"></p>
		</div>
		<p>Outside paragraph</p>
	</body>
</html>
`
