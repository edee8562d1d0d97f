package web

// The demo page: an upload control, a question box and the answer area. Styling is driven by the
// typed Theme; layout is deliberately minimal since the page is not the interesting part of this
// repository.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  :root {
    --primary: {{.PrimaryColor}};
    --secondary: {{.SecondaryColor}};
    --neutral: {{.NeutralColor}};
  }
  body { font-family: sans-serif; max-width: 1200px; margin: 2em auto; color: var(--neutral);
         {{if .Glassy}}background: linear-gradient(#f8fafc, #e2e8f0);{{end}} }
  h1 { color: var(--primary); }
  fieldset { border: 1px solid var(--neutral); border-radius: 6px; margin-bottom: 1em; }
  button { background: var(--primary); color: white; border: none; padding: .6em 1.2em;
           border-radius: 4px; cursor: pointer; }
  button:hover { filter: brightness(0.9); }
  #answer { border-left: 4px solid var(--secondary); padding-left: 1em; min-height: 2em; }
  .examples li { cursor: pointer; color: var(--secondary); }
  .error { color: #dc2626; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>Upload an image and ask a question about it. Runs entirely on local hardware.</p>
<form id="form">
  <fieldset>
    <legend>Image</legend>
    <input type="file" name="image" accept="image/png,image/jpeg,image/gif">
  </fieldset>
  <fieldset>
    <legend>Your question</legend>
    <textarea name="question" rows="2" cols="60" placeholder="{{.Placeholder}}"></textarea>
  </fieldset>
  <button type="submit">Ask Gemma 3</button>
</form>
<h3>Answer</h3>
<div id="answer"><em>Waiting for your question...</em></div>
<h3>Example questions</h3>
<ul class="examples">
{{range .Examples}}  <li onclick="document.forms[0].question.value = this.textContent">{{.}}</li>
{{end}}</ul>
<script>
document.getElementById("form").addEventListener("submit", async function(e) {
  e.preventDefault();
  const answer = document.getElementById("answer");
  answer.innerHTML = "<em>Analyzing...</em>";
  const response = await fetch("/analyze", { method: "POST", body: new FormData(this) });
  const result = await response.json();
  if (result.succeeded) {
    answer.textContent = result.answer;
    answer.classList.remove("error");
  } else {
    answer.textContent = result.error;
    answer.classList.add("error");
  }
});
</script>
</body>
</html>
`
